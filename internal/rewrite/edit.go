package rewrite

import (
	"errors"
	"fmt"
	"sort"

	"remedy/internal/source"
)

// ErrConflictingEdits is returned when two edits target overlapping spans.
var ErrConflictingEdits = errors.New("conflicting edits")

// TextEdit replaces the bytes covered by Span with NewText. When OldText is
// non-empty it acts as a guard: the edit is rejected unless the current
// content of the span matches it exactly.
type TextEdit struct {
	Span    source.Span
	OldText string
	NewText string
}

// Insertion creates a zero-length edit that inserts text at offset.
func Insertion(file source.FileID, offset uint32, text string) TextEdit {
	return TextEdit{
		Span:    source.Span{File: file, Start: offset, End: offset},
		NewText: text,
	}
}

// Replacement creates an edit replacing span with text, guarded by old.
func Replacement(span source.Span, old, text string) TextEdit {
	return TextEdit{Span: span, OldText: old, NewText: text}
}

// Conflicts reports whether two edits cannot be applied together.
func Conflicts(a, b TextEdit) bool {
	return a.Span.Overlaps(b.Span)
}

// Apply applies the edits to content and returns the rewritten bytes.
// Edits may be given in any order; they are applied back-to-front so earlier
// spans stay valid. Overlapping spans, out-of-range spans, and failed OldText
// guards are errors and leave content untouched.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}

	for i := 0; i < len(edits); i++ {
		for j := i + 1; j < len(edits); j++ {
			if Conflicts(edits[i], edits[j]) {
				return nil, fmt.Errorf("%w: %s and %s",
					ErrConflictingEdits, edits[i].Span, edits[j].Span)
			}
		}
	}

	ordered := make([]TextEdit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Span.Start == ordered[j].Span.Start {
			return ordered[i].Span.End > ordered[j].Span.End
		}
		return ordered[i].Span.Start > ordered[j].Span.Start
	})

	working := append([]byte(nil), content...)
	for _, edit := range ordered {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if start < 0 || end < start || end > len(working) {
			return nil, fmt.Errorf("edit span %s out of range (len %d)", edit.Span, len(working))
		}
		if edit.OldText != "" && string(working[start:end]) != edit.OldText {
			return nil, fmt.Errorf("edit at %s: existing text %q does not match expected %q",
				edit.Span, string(working[start:end]), edit.OldText)
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
	}
	return working, nil
}
