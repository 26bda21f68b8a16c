package codemod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"remedy/internal/finding"
	"remedy/internal/reportcache"
)

// Normalizer converts a raw report body into normalized findings, resolving
// file addressing against the target directory.
type Normalizer func(data []byte, baseDir string) ([]finding.Finding, error)

// IndexDetector serves a pre-built result index. Used when findings were
// normalized ahead of time, and in tests.
type IndexDetector struct {
	Index *finding.ResultIndex
}

func (d *IndexDetector) Detect(context.Context, string, *ExecutionContext, []string) (*finding.ResultIndex, error) {
	if d.Index == nil {
		return finding.NewResultIndex(nil), nil
	}
	return d.Index, nil
}

// ReportDetector loads findings from external report files on disk and
// normalizes them into a result index. A report that fails to read or parse
// is a terminal error for the codemod consuming it; a well-formed report
// with no matches is valid success.
//
// With a Cache configured, normalized findings are reused for unchanged
// report bodies.
type ReportDetector struct {
	Paths     []string
	Normalize Normalizer
	Cache     *reportcache.Cache
}

func (d *ReportDetector) Detect(_ context.Context, _ string, ec *ExecutionContext, _ []string) (*finding.ResultIndex, error) {
	var all []finding.Finding
	for _, path := range d.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read report %s: %w", path, err)
		}

		digest := ""
		if d.Cache != nil {
			digest = reportcache.Digest(data, ec.Dir)
			if cached, err := d.Cache.Get(digest); err == nil {
				all = append(all, cached...)
				continue
			} else if !errors.Is(err, reportcache.ErrMiss) {
				return nil, err
			}
		}

		findings, err := d.Normalize(data, ec.Dir)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", path, err)
		}
		if d.Cache != nil {
			// Best effort; a failed write never fails the detector.
			_ = d.Cache.Put(digest, findings)
		}
		all = append(all, findings...)
	}
	return finding.NewResultIndex(all), nil
}

// ToolDetector invokes an external scanning tool and normalizes its stdout.
// The candidate file list is appended to the argument vector. An unreachable
// tool or unparsable output is a terminal error for the codemod.
type ToolDetector struct {
	// Command is the argv template, e.g. {"semgrep", "scan", "--json"}.
	Command []string
	// Normalize parses the tool's stdout.
	Normalize Normalizer
	// PassFiles appends the candidate files to the argument vector when
	// set; otherwise the tool scans the target directory.
	PassFiles bool
}

func (d *ToolDetector) Detect(ctx context.Context, _ string, ec *ExecutionContext, files []string) (*finding.ResultIndex, error) {
	if len(d.Command) == 0 {
		return nil, fmt.Errorf("tool detector: empty command")
	}

	args := append([]string(nil), d.Command[1:]...)
	if d.PassFiles {
		args = append(args, files...)
	} else {
		args = append(args, ec.Dir)
	}

	cmd := exec.CommandContext(ctx, d.Command[0], args...)
	cmd.Dir = ec.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", d.Command[0], err, stderr.String())
	}

	findings, err := d.Normalize(stdout.Bytes(), ec.Dir)
	if err != nil {
		return nil, fmt.Errorf("%s output: %w", d.Command[0], err)
	}
	return finding.NewResultIndex(findings), nil
}
