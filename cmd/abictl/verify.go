package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/kjannette/fourmeme-abis/internal/abis"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate the override files in --dir",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if abiDir == "" {
		fmt.Fprintln(out, warnColor("no --dir given; built-in ABIs only"))
	}

	reg, err := loadRegistry()
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", errColor("[FAIL]"), err)
		if errors.Is(err, abis.ErrInvalidABI) {
			return fmt.Errorf("invalid ABI in %s", filepath.Clean(abiDir))
		}
		return err
	}

	for _, e := range reg.Entries() {
		parsed, _ := reg.ABI(e.Name)
		fmt.Fprintf(out, "%s %-20s %d methods, %d events, %d errors (%s)\n",
			okColor("[ OK ]"), e.Symbol(),
			len(parsed.Methods), len(parsed.Events), len(parsed.Errors), e.Source)
	}
	return nil
}

func sortedMethods(methods map[string]abi.Method) []abi.Method {
	out := make([]abi.Method, 0, len(methods))
	for _, m := range methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
