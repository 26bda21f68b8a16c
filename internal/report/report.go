// Package report assembles the machine-readable result document for one run
// and writes it to disk. The layout follows the Code Transformation Format:
// a run header plus one entry per executed codemod carrying its change sets
// and per-file failures.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"remedy/internal/codemod"
)

// RunInfo is the header metadata recorded with the results.
type RunInfo struct {
	Version     string
	CommandLine []string
	ElapsedMS   int64
	Directory   string
	DryRun      bool
	Sarifs      []string
}

// Document is the full result document for one run.
type Document struct {
	Run     Run      `json:"run"`
	Results []Result `json:"results"`
}

type Run struct {
	Vendor      string   `json:"vendor"`
	Tool        string   `json:"tool"`
	Version     string   `json:"version"`
	CommandLine []string `json:"commandLine"`
	Elapsed     int64    `json:"elapsed"`
	Directory   string   `json:"directory"`
	DryRun      bool     `json:"dryRun"`
	Sarifs      []string `json:"sarifs,omitempty"`
}

// Result is the outcome of one codemod across the whole tree.
type Result struct {
	Codemod     string      `json:"codemod"`
	Summary     string      `json:"summary"`
	Description string      `json:"description"`
	References  []Reference `json:"references,omitempty"`
	Detection   *Detection  `json:"detectionTool,omitempty"`
	FailedFiles []string    `json:"failedFiles"`
	Changeset   []Change    `json:"changeset"`
}

type Reference struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Detection records the external tool whose findings drove the codemod.
type Detection struct {
	Name     string `json:"name"`
	RuleID   string `json:"ruleId,omitempty"`
	RuleName string `json:"ruleName,omitempty"`
	RuleURL  string `json:"ruleUrl,omitempty"`
}

// Change is one changed file within a codemod's result.
type Change struct {
	Path         string `json:"path"`
	Diff         string `json:"diff"`
	Description  string `json:"description,omitempty"`
	LinesChanged int    `json:"linesChanged"`
}

// Build assembles the document from the aggregator. Codemods without
// recorded results (a detector failure skipped them) are omitted; codemods
// that ran but changed nothing appear with an empty changeset.
func Build(ec *codemod.ExecutionContext, mods []*codemod.Codemod, info RunInfo) *Document {
	doc := &Document{
		Run: Run{
			Vendor:      "remedy",
			Tool:        "remedy",
			Version:     info.Version,
			CommandLine: info.CommandLine,
			Elapsed:     info.ElapsedMS,
			Directory:   info.Directory,
			DryRun:      info.DryRun,
			Sarifs:      info.Sarifs,
		},
	}

	for _, mod := range mods {
		contexts := ec.ResultsFor(mod.ID())
		if contexts == nil {
			continue
		}

		res := Result{
			Codemod:     mod.ID(),
			Summary:     mod.Metadata.Summary,
			Description: mod.Description(),
			FailedFiles: []string{},
			Changeset:   []Change{},
		}
		for _, ref := range mod.Metadata.References {
			res.References = append(res.References, Reference{URL: ref.URL, Description: ref.Description})
		}
		if tool := mod.Metadata.Tool; tool != nil {
			res.Detection = &Detection{
				Name:     tool.Name,
				RuleID:   tool.RuleID,
				RuleName: tool.RuleName,
				RuleURL:  tool.RuleURL,
			}
		}

		for _, fc := range contexts {
			if fc.Failure != nil {
				res.FailedFiles = append(res.FailedFiles, fc.RelPath())
			}
			for _, cs := range fc.Results {
				res.Changeset = append(res.Changeset, Change{
					Path:         cs.Path,
					Diff:         cs.Diff,
					Description:  cs.Description,
					LinesChanged: cs.LinesChanged,
				})
			}
		}
		doc.Results = append(doc.Results, res)
	}

	return doc
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Write stores the document at path, creating parent directories.
func (d *Document) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := d.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
