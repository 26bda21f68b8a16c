package finding

import (
	"path/filepath"
	"strings"
)

// Finding is one normalized defect location reported by a detector or an
// external SAST report. Line numbers are 1-based. Immutable once built.
type Finding struct {
	RuleID     string
	Path       string // absolute, slash-normalized
	StartLine  int
	EndLine    int // 0 means same as StartLine
	Column     int // 0 means unknown
	SourceTool string
}

// LastLine returns the inclusive end line of the finding.
func (f Finding) LastLine() int {
	if f.EndLine == 0 {
		return f.StartLine
	}
	return f.EndLine
}

// NormalizePath resolves a report-relative path against baseDir and returns
// the canonical absolute form used as a ResultIndex key. External tools
// disagree on addressing: some emit absolute paths, some repo-relative, some
// file:// URIs.
func NormalizePath(path, baseDir string) string {
	path = strings.TrimPrefix(path, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return filepath.ToSlash(filepath.Clean(path))
}
