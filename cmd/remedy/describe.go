package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"remedy/internal/codemod"
	"remedy/internal/codemods"
)

func init() {
	describeCmd.Flags().StringSlice("codemod-include", nil, "codemod names to describe (default: all)")
	describeCmd.Flags().StringSlice("codemod-exclude", nil, "codemod names to leave out")
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the registered codemods as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		include, err := cmd.Flags().GetStringSlice("codemod-include")
		if err != nil {
			return err
		}
		exclude, err := cmd.Flags().GetStringSlice("codemod-exclude")
		if err != nil {
			return err
		}

		reg := codemods.DefaultRegistry(codemods.Options{})
		descriptions := reg.Describe(include, exclude)

		payload := struct {
			Results []describePayload `json:"results"`
		}{Results: make([]describePayload, 0, len(descriptions))}
		for _, d := range descriptions {
			payload.Results = append(payload.Results, newDescribePayload(d))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	},
}

type describePayload struct {
	Codemod     string             `json:"codemod"`
	Summary     string             `json:"summary"`
	Description string             `json:"description"`
	References  []referencePayload `json:"references"`
}

type referencePayload struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func newDescribePayload(d codemod.Description) describePayload {
	p := describePayload{
		Codemod:     d.ID,
		Summary:     d.Summary,
		Description: d.Description,
		References:  make([]referencePayload, 0, len(d.References)),
	}
	for _, ref := range d.References {
		text := ref.Description
		if text == "" {
			text = ref.URL
		}
		p.References = append(p.References, referencePayload{URL: ref.URL, Description: text})
	}
	return p
}
