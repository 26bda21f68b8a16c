package finding

import (
	"encoding/json"
	"fmt"
)

// SARIF (simplified): only the fields the normalizer consumes.
type sarifLog struct {
	Runs []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool struct {
		Driver struct {
			Name string `json:"name"`
		} `json:"driver"`
	} `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifResult struct {
	RuleID    string `json:"ruleId"`
	Locations []struct {
		PhysicalLocation struct {
			ArtifactLocation struct {
				URI string `json:"uri"`
			} `json:"artifactLocation"`
			Region struct {
				StartLine   int `json:"startLine"`
				EndLine     int `json:"endLine"`
				StartColumn int `json:"startColumn"`
			} `json:"region"`
		} `json:"physicalLocation"`
	} `json:"locations"`
}

// NormalizeSARIF converts a SARIF document into normalized findings, resolving
// artifact URIs against baseDir. A document that fails to parse is a terminal
// error for the codemod consuming it; a well-formed document with no results
// yields an empty slice.
func NormalizeSARIF(data []byte, baseDir string) ([]Finding, error) {
	var log sarifLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parse sarif: %w", err)
	}

	var out []Finding
	for _, run := range log.Runs {
		tool := run.Tool.Driver.Name
		for _, res := range run.Results {
			for _, loc := range res.Locations {
				phys := loc.PhysicalLocation
				if phys.ArtifactLocation.URI == "" || phys.Region.StartLine == 0 {
					continue
				}
				out = append(out, Finding{
					RuleID:     res.RuleID,
					Path:       NormalizePath(phys.ArtifactLocation.URI, baseDir),
					StartLine:  phys.Region.StartLine,
					EndLine:    phys.Region.EndLine,
					Column:     phys.Region.StartColumn,
					SourceTool: tool,
				})
			}
		}
	}
	return out, nil
}
