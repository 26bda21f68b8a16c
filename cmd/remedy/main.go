package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"remedy/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "remedy [flags] <directory>",
	Short: "Automated codemods for security findings",
	Long:  "Remedy runs security-focused codemods over a source tree and reports every change it makes.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoot,
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
