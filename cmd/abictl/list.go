package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered ABIs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range reg.Entries() {
		count := fmt.Sprintf("%3d fragments", e.FragmentCount)
		if e.FragmentCount == 0 {
			count = warnColor(count)
		}
		fmt.Fprintf(out, "%-20s %s  %s  %s\n", e.Symbol(), count, dimColor(e.Hash.Hex()[:18]), e.Source)
	}
	fmt.Fprintf(out, "fingerprint %s\n", reg.Fingerprint().Hex())
	return nil
}
