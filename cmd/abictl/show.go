package main

import (
	"encoding/json"
	"fmt"

	"github.com/kjannette/fourmeme-abis/internal/abis"
	"github.com/spf13/cobra"
)

var (
	showFragments bool
	showType      string
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print an ABI",
	Long: `Print the ABI JSON for a name or symbol (e.g. erc20, HELPER3_ABI).

With --fragments, print one signature per line instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var methodsCmd = &cobra.Command{
	Use:   "methods <name>",
	Short: "List callable methods of an ABI",
	Args:  cobra.ExactArgs(1),
	RunE:  runMethods,
}

func init() {
	showCmd.Flags().BoolVar(&showFragments, "fragments", false, "print fragment signatures")
	showCmd.Flags().StringVar(&showType, "type", "", "only fragments of this type (function, event, error, ...)")
	rootCmd.AddCommand(showCmd, methodsCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	n, err := abis.ParseName(args[0])
	if err != nil {
		return err
	}
	if showType != "" && !abis.ValidFragmentType(showType) {
		return fmt.Errorf("invalid fragment type %q", showType)
	}

	out := cmd.OutOrStdout()
	if !showFragments && showType == "" {
		raw, err := reg.JSON(n)
		if err != nil {
			return err
		}
		var pretty any
		if err := json.Unmarshal([]byte(raw), &pretty); err != nil {
			return err
		}
		b, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Fprintln(out, string(b))
		return nil
	}

	frags, err := reg.Fragments(n)
	if err != nil {
		return err
	}
	frags = abis.FilterFragments(frags, showType)
	if len(frags) == 0 {
		fmt.Fprintln(out, warnColor(fmt.Sprintf("%s has no fragments", n.Symbol())))
		return nil
	}
	for _, f := range frags {
		line := fmt.Sprintf("%-11s %s", f.Type, f.Signature())
		if f.StateMutability != "" {
			line += " " + dimColor(f.StateMutability)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runMethods(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	n, err := abis.ParseName(args[0])
	if err != nil {
		return err
	}
	parsed, err := reg.ABI(n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(parsed.Methods) == 0 {
		fmt.Fprintln(out, warnColor(fmt.Sprintf("%s has no methods", n.Symbol())))
		return nil
	}
	for _, m := range sortedMethods(parsed.Methods) {
		fmt.Fprintf(out, "0x%x  %s\n", m.ID, m.Sig)
	}
	return nil
}
