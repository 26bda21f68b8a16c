// Package linefilter computes, per file, which lines a codemod is allowed
// to touch based on the process-wide path include/exclude glob patterns.
//
// A pattern addresses either a whole file ("src/**") or specific lines
// within it ("src/app.py:3", "src/app.py:10-20"). Whole-file patterns are
// the file matcher's concern; only line-qualified patterns contribute to
// the per-file line sets here.
package linefilter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// LineRange is an inclusive 1-based range of lines.
type LineRange struct {
	Start int
	End   int
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return r.Start <= line && line <= r.End
}

// Filter holds the excluded and included line ranges computed for one file.
// A location is permitted only if it is not excluded and, when any include
// ranges exist for the file, only if explicitly included.
type Filter struct {
	Excludes []LineRange
	Includes []LineRange
}

// Allows reports whether a rewrite at the given 1-based line is in scope.
func (f Filter) Allows(line int) bool {
	if len(f.Includes) > 0 && !contains(f.Includes, line) {
		return false
	}
	return !contains(f.Excludes, line)
}

// AllowsRange reports whether every line in [start, end] is in scope.
func (f Filter) AllowsRange(start, end int) bool {
	if end < start {
		end = start
	}
	for line := start; line <= end; line++ {
		if !f.Allows(line) {
			return false
		}
	}
	return true
}

func contains(ranges []LineRange, line int) bool {
	for _, r := range ranges {
		if r.Contains(line) {
			return true
		}
	}
	return false
}

// ForFile computes the filter for relPath (slash-separated, relative to the
// target directory) from the configured exclude and include patterns.
// Patterns are assumed validated; unmatchable ones are skipped.
func ForFile(relPath string, exclude, include []string) Filter {
	return Filter{
		Excludes: linesFor(relPath, exclude),
		Includes: linesFor(relPath, include),
	}
}

func linesFor(relPath string, patterns []string) []LineRange {
	var out []LineRange
	for _, pat := range patterns {
		glob, lines, ok := splitQualifier(pat)
		if !ok {
			continue // whole-file pattern, no line restriction
		}
		if matchGlob(glob, relPath) {
			out = append(out, lines)
		}
	}
	return out
}

func matchGlob(glob, relPath string) bool {
	if ok, err := doublestar.Match(glob, relPath); err == nil && ok {
		return true
	}
	// Bare patterns like "conftest.py:3" apply at any depth.
	if !strings.ContainsRune(glob, '/') {
		ok, err := doublestar.Match("**/"+glob, relPath)
		return err == nil && ok
	}
	return false
}

// splitQualifier splits "glob:3" or "glob:10-20" into the glob and the line
// range. Returns ok=false for patterns without a numeric qualifier.
func splitQualifier(pattern string) (glob string, lines LineRange, ok bool) {
	i := strings.LastIndexByte(pattern, ':')
	if i < 0 {
		return pattern, LineRange{}, false
	}
	r, err := parseRange(pattern[i+1:])
	if err != nil {
		return pattern, LineRange{}, false
	}
	return pattern[:i], r, true
}

func parseRange(s string) (LineRange, error) {
	if start, end, found := strings.Cut(s, "-"); found {
		lo, err := strconv.Atoi(start)
		if err != nil {
			return LineRange{}, err
		}
		hi, err := strconv.Atoi(end)
		if err != nil {
			return LineRange{}, err
		}
		if lo < 1 || hi < lo {
			return LineRange{}, fmt.Errorf("invalid line range %q", s)
		}
		return LineRange{Start: lo, End: hi}, nil
	}
	line, err := strconv.Atoi(s)
	if err != nil {
		return LineRange{}, err
	}
	if line < 1 {
		return LineRange{}, fmt.Errorf("invalid line %q", s)
	}
	return LineRange{Start: line, End: line}, nil
}

// LineQualified reports whether the pattern carries a line qualifier. Line
// qualified patterns restrict lines within a file; they never exclude the
// file itself from matching.
func LineQualified(pattern string) bool {
	_, _, ok := splitQualifier(pattern)
	return ok
}

// MatchFile reports whether relPath matches the pattern's glob component,
// ignoring any line qualifier.
func MatchFile(pattern, relPath string) bool {
	glob, _, _ := splitQualifier(pattern)
	return matchGlob(glob, relPath)
}

// ValidatePatterns checks every glob for syntax errors and every qualifier
// for a well-formed line range. Called once before any codemod runs; a bad
// pattern is a configuration error fatal to the whole invocation.
func ValidatePatterns(patterns []string) error {
	for _, pat := range patterns {
		glob := pat
		if i := strings.LastIndexByte(pat, ':'); i >= 0 {
			if _, err := parseRange(pat[i+1:]); err == nil {
				glob = pat[:i]
			}
		}
		if !doublestar.ValidatePattern(glob) {
			return fmt.Errorf("invalid path pattern %q", pat)
		}
	}
	return nil
}
