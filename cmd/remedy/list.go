package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"remedy/internal/codemods"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered codemods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := codemods.DefaultRegistry(codemods.Options{})
		for _, id := range reg.IDs() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}
