package finding

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sonar issues export (simplified).
type sonarIssues struct {
	Issues []sonarIssue `json:"issues"`
}

type sonarIssue struct {
	Rule      string `json:"rule"`
	Component string `json:"component"` // "projectKey:path/to/file.py"
	Line      int    `json:"line"`
	TextRange struct {
		StartLine   int `json:"startLine"`
		EndLine     int `json:"endLine"`
		StartOffset int `json:"startOffset"`
	} `json:"textRange"`
}

// NormalizeSonar converts a Sonar issues JSON export into normalized
// findings. Component keys carry a "projectKey:" prefix that is stripped
// before the path is resolved against baseDir.
func NormalizeSonar(data []byte, baseDir string) ([]Finding, error) {
	var doc sonarIssues
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sonar issues: %w", err)
	}

	var out []Finding
	for _, issue := range doc.Issues {
		path := issue.Component
		if i := strings.IndexByte(path, ':'); i >= 0 {
			path = path[i+1:]
		}
		if path == "" {
			continue
		}

		start := issue.TextRange.StartLine
		if start == 0 {
			start = issue.Line
		}
		if start == 0 {
			continue
		}

		out = append(out, Finding{
			RuleID:     issue.Rule,
			Path:       NormalizePath(path, baseDir),
			StartLine:  start,
			EndLine:    issue.TextRange.EndLine,
			Column:     issue.TextRange.StartOffset,
			SourceTool: "sonar",
		})
	}
	return out, nil
}
