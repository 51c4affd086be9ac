package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/kjannette/fourmeme-abis/internal/abis"
	"github.com/spf13/cobra"
)

var abiDir string

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	errColor  = color.New(color.FgRed).SprintFunc()
	dimColor  = color.New(color.Faint).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "abictl",
	Short: "Inspect the four.meme contract ABIs",
	Long: `abictl inspects the TokenManager, ERC20, Helper3 and PancakeRouter ABIs.

Built-in ABIs are used unless --dir (or ABI_DIR) points at a directory of
override files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&abiDir, "dir", os.Getenv("ABI_DIR"), "directory with ABI override files")
}

func loadRegistry() (*abis.Registry, error) {
	return abis.Load(abiDir)
}
