package codemod

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"remedy/internal/finding"
)

// Codemod binds one Metadata, an optional Detector, exactly one Transformer,
// and the file extensions it applies to. Codemods are registered once at
// startup and are immutable and stateless between runs, apart from the
// memoized description below.
type Codemod struct {
	// Origin identifies who authored the codemod, e.g. "remedy".
	Origin string
	// Metadata describes the codemod.
	Metadata Metadata
	// Detector is nil for codemods whose transformer finds its own work.
	Detector Detector
	// Transformer performs the rewrite.
	Transformer Transformer
	// Extensions restricts the eligible files. Empty means the default
	// extension for the metadata language.
	Extensions []string
	// ExtraRules lists additional rule ids this codemod subsumes, e.g.
	// when unifying imported tool findings under one name.
	ExtraRules []string
	// Docs optionally holds the markdown documentation tree used to
	// resolve the long description lazily.
	Docs fs.FS

	desc atomic.Pointer[string]
}

// Name returns the short codemod name used for include/exclude matching.
func (c *Codemod) Name() string {
	return c.Metadata.Name
}

// Language returns the target language tag.
func (c *Codemod) Language() string {
	if c.Metadata.Language == "" {
		return "python"
	}
	return c.Metadata.Language
}

// ID returns the stable identity string "origin:language/name".
func (c *Codemod) ID() string {
	return fmt.Sprintf("%s:%s/%s", c.Origin, c.Language(), c.Name())
}

// Description returns the long description, resolving it from Docs on first
// access. The resolution is pure, so a race on first access is harmless:
// last write wins with an identical value.
func (c *Codemod) Description() string {
	if c.Metadata.Description != "" {
		return c.Metadata.Description
	}
	if cached := c.desc.Load(); cached != nil {
		return *cached
	}
	text := c.loadDoc()
	c.desc.Store(&text)
	return text
}

func (c *Codemod) loadDoc() string {
	if c.Docs == nil {
		return c.Metadata.Summary
	}
	name := fmt.Sprintf("%s_%s_%s.md", c.Origin, c.Language(), c.Name())
	data, err := fs.ReadFile(c.Docs, name)
	if err != nil {
		return c.Metadata.Summary
	}
	return strings.TrimRight(string(data), "\n")
}

// extensions returns the eligible file extensions, defaulting per language.
func (c *Codemod) extensions() []string {
	if len(c.Extensions) > 0 {
		return c.Extensions
	}
	switch c.Language() {
	case "python":
		return []string{".py"}
	case "go":
		return []string{".go"}
	case "java":
		return []string{".java"}
	default:
		return nil
	}
}

// ruleNames returns the rule ids queried against the result index for each
// file: the codemod's own name first, then any subsumed rules.
func (c *Codemod) ruleNames() []string {
	return append([]string{c.Name()}, c.ExtraRules...)
}

// Description is the read-only describe surface for one codemod.
type Description struct {
	ID          string
	Summary     string
	Description string
	References  []Reference
}

// Describe returns the codemod's description record. Pure read access.
func (c *Codemod) Describe() Description {
	return Description{
		ID:          c.ID(),
		Summary:     c.Metadata.Summary,
		Description: c.Description(),
		References:  c.Metadata.References,
	}
}

// Apply orchestrates the codemod over the candidate file list: run the
// detector once (synchronously), filter files to the eligible extensions,
// fan the file execution units out across a bounded worker pool, join the
// outcomes in file-list order, and record them in the aggregator.
//
// A detector failure is terminal for this codemod only; the caller skips it
// and proceeds with the others. Codemods are applied sequentially relative
// to each other: Apply fully joins before it returns.
func (c *Codemod) Apply(ctx context.Context, ec *ExecutionContext, files []string) error {
	var index *finding.ResultIndex
	if c.Detector != nil {
		var err error
		index, err = c.Detector.Detect(ctx, c.Name(), ec, files)
		if err != nil {
			return fmt.Errorf("codemod %s: detector: %w", c.ID(), err)
		}
	}

	eligible := filterByExtension(files, c.extensions())
	rules := c.ruleNames()

	// Outcomes land in a pre-sized slice indexed by file position, so the
	// join order is structural and independent of completion order.
	results := make([]*FileContext, len(eligible))

	if len(eligible) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(ec.Workers(), len(eligible)))

		for i, path := range eligible {
			i, path := i, path
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = c.processFile(ec, index, rules, path)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("codemod %s: %w", c.ID(), err)
		}
	}

	return ec.recordResults(c.ID(), results)
}

// processFile is the file execution unit for one (codemod, file) pair. It
// always returns a FileContext so the file is accounted for in reporting;
// recoverable transformer faults are captured on the context instead of
// propagating, so sibling files keep processing.
func (c *Codemod) processFile(ec *ExecutionContext, index *finding.ResultIndex, rules []string, path string) *FileContext {
	fc := NewFileContext(ec, path)

	if index != nil {
		// Insertion order: rule-name iteration order, then finding
		// order within each rule.
		findings := make([]finding.Finding, 0)
		for _, rule := range rules {
			findings = append(findings, index.ForRuleAndFile(rule, path)...)
		}
		fc.Findings = findings
	}

	cs, err := c.transformSafely(ec, fc)
	if err != nil {
		fc.Failure = err
		return fc
	}
	if cs != nil {
		fc.AddResult(cs)
	}
	return fc
}

// transformSafely invokes the transformer, converting panics into per-file
// failures so a crashed unit never aborts its siblings.
func (c *Codemod) transformSafely(ec *ExecutionContext, fc *FileContext) (cs *ChangeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			cs = nil
			err = fmt.Errorf("transformer panic: %v", r)
		}
	}()
	return c.Transformer.Transform(ec, fc, fc.Findings)
}

func filterByExtension(files []string, extensions []string) []string {
	if len(extensions) == 0 {
		return files
	}
	out := make([]string, 0, len(files))
	for _, path := range files {
		ext := filepath.Ext(path)
		for _, want := range extensions {
			if ext == want {
				out = append(out, path)
				break
			}
		}
	}
	return out
}
