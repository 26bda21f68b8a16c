package rewrite

import (
	"errors"
	"strings"
	"testing"

	"remedy/internal/source"
)

func TestApplyOrdersEditsBackToFront(t *testing.T) {
	content := []byte("aaa bbb ccc")
	edits := []TextEdit{
		{Span: source.Span{Start: 0, End: 3}, OldText: "aaa", NewText: "xx"},
		{Span: source.Span{Start: 8, End: 11}, OldText: "ccc", NewText: "zzzz"},
		{Span: source.Span{Start: 4, End: 7}, OldText: "bbb", NewText: "y"},
	}

	got, err := Apply(content, edits)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(got) != "xx y zzzz" {
		t.Errorf("expected %q, got %q", "xx y zzzz", string(got))
	}
	if string(content) != "aaa bbb ccc" {
		t.Error("input content must not be mutated")
	}
}

func TestApplyRejectsOverlappingEdits(t *testing.T) {
	edits := []TextEdit{
		{Span: source.Span{Start: 0, End: 5}, NewText: "x"},
		{Span: source.Span{Start: 3, End: 8}, NewText: "y"},
	}

	_, err := Apply([]byte("0123456789"), edits)
	if !errors.Is(err, ErrConflictingEdits) {
		t.Fatalf("expected ErrConflictingEdits, got %v", err)
	}
}

func TestApplyGuardsOldText(t *testing.T) {
	edits := []TextEdit{
		{Span: source.Span{Start: 0, End: 3}, OldText: "foo", NewText: "bar"},
	}

	if _, err := Apply([]byte("qux"), edits); err == nil {
		t.Fatal("expected guard failure for mismatched old text")
	}

	got, err := Apply([]byte("foo"), edits)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(got) != "bar" {
		t.Errorf("expected %q, got %q", "bar", string(got))
	}
}

func TestApplyOutOfRangeSpan(t *testing.T) {
	edits := []TextEdit{
		{Span: source.Span{Start: 5, End: 20}, NewText: "x"},
	}
	if _, err := Apply([]byte("short"), edits); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestInsertionAtSameBoundaryAsReplacement(t *testing.T) {
	// A zero-length insertion at the end boundary of a replaced span does
	// not conflict with it.
	content := []byte("import os\n")
	edits := []TextEdit{
		Insertion(0, 10, "import sys\n"),
		Replacement(source.Span{Start: 7, End: 9}, "os", "re"),
	}

	got, err := Apply(content, edits)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(got) != "import re\nimport sys\n" {
		t.Errorf("unexpected result %q", string(got))
	}
}

func TestUnifiedDiffAndChangedLines(t *testing.T) {
	before := []byte("one\ntwo\nthree\n")
	after := []byte("one\n2\nthree\n")

	diff, err := UnifiedDiff("f.py", before, after)
	if err != nil {
		t.Fatalf("UnifiedDiff failed: %v", err)
	}
	if !strings.Contains(diff, "--- a/f.py") || !strings.Contains(diff, "+++ b/f.py") {
		t.Errorf("missing file headers in diff:\n%s", diff)
	}
	if !strings.Contains(diff, "-two") || !strings.Contains(diff, "+2") {
		t.Errorf("missing hunk lines in diff:\n%s", diff)
	}
	if got := ChangedLines(diff); got != 2 {
		t.Errorf("expected 2 changed lines, got %d", got)
	}
}

func TestUnifiedDiffIdenticalContentIsEmpty(t *testing.T) {
	diff, err := UnifiedDiff("f.py", []byte("same\n"), []byte("same\n"))
	if err != nil {
		t.Fatalf("UnifiedDiff failed: %v", err)
	}
	if diff != "" {
		t.Errorf("expected empty diff, got %q", diff)
	}
}
