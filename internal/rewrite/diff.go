package rewrite

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a classic unified patch for one file, with a/ and b/
// prefixed headers so downstream tooling can apply it with -p1.
func UnifiedDiff(path string, before, after []byte) (string, error) {
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(u)
}

// ChangedLines counts added and removed lines in a unified diff body,
// ignoring the ---/+++ file headers.
func ChangedLines(diff string) int {
	count := 0
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"):
			count++
		}
	}
	return count
}
