package codemods

import (
	"fmt"
	"regexp"
	"strings"

	"remedy/internal/codemod"
	"remedy/internal/finding"
	"remedy/internal/rewrite"
	"remedy/internal/source"

	"fortio.org/safecast"
)

// PatternTransformer rewrites every regular-expression match on in-scope
// lines of a file, optionally inserting an import line once when any
// rewrite happened.
//
// For detector-gated codemods (non-nil findings) only lines covered by a
// finding are candidates; with nil findings the transformer matches the
// whole file on its own. Either way every candidate location is checked
// against the file's line filter before an edit is emitted.
type PatternTransformer struct {
	Pattern     *regexp.Regexp
	Replacement string
	// AddImport is inserted once, after the leading import block, when at
	// least one rewrite was applied and the line is not already present.
	AddImport   string
	Description string
}

func (t *PatternTransformer) Transform(_ *codemod.ExecutionContext, fc *codemod.FileContext, findings []finding.Finding) (*codemod.ChangeSet, error) {
	if findings != nil && len(findings) == 0 {
		// Detector-gated with nothing to do: never detect work on our own.
		return nil, nil
	}

	file, err := fc.File()
	if err != nil {
		return nil, err
	}

	edits := t.collectEdits(file, fc, findings)
	if len(edits) == 0 {
		return nil, nil
	}

	if t.AddImport != "" && !hasLine(file, t.AddImport) {
		edits = append(edits, importInsertion(file, t.AddImport))
	}

	rewritten, err := rewrite.Apply(file.Content, edits)
	if err != nil {
		return nil, err
	}

	rel := fc.RelPath()
	diff, err := rewrite.UnifiedDiff(rel, file.Content, rewritten)
	if err != nil {
		return nil, err
	}
	if diff == "" {
		return nil, nil
	}

	return &codemod.ChangeSet{
		Path:         rel,
		Diff:         diff,
		LinesChanged: rewrite.ChangedLines(diff),
		Description:  t.Description,
		Rewritten:    rewritten,
	}, nil
}

func (t *PatternTransformer) collectEdits(file *source.File, fc *codemod.FileContext, findings []finding.Finding) []rewrite.TextEdit {
	var allowed map[int]bool
	if findings != nil {
		allowed = make(map[int]bool)
		for _, f := range findings {
			for line := f.StartLine; line <= f.LastLine(); line++ {
				allowed[line] = true
			}
		}
	}

	var edits []rewrite.TextEdit
	lineCount := file.LineCount()
	for lineNum := uint32(1); lineNum <= lineCount; lineNum++ {
		intLine, err := safecast.Conv[int](lineNum)
		if err != nil {
			panic(fmt.Errorf("line number overflow: %w", err))
		}
		if allowed != nil && !allowed[intLine] {
			continue
		}
		if !fc.LineFilter.Allows(intLine) {
			continue
		}

		span, ok := file.LineSpan(lineNum)
		if !ok {
			continue
		}
		line := file.Content[span.Start:span.End]
		for _, loc := range t.Pattern.FindAllSubmatchIndex(line, -1) {
			old := line[loc[0]:loc[1]]
			replacement := t.Pattern.Expand(nil, []byte(t.Replacement), line, loc)
			if string(replacement) == string(old) {
				continue
			}
			edits = append(edits, rewrite.Replacement(source.Span{
				File:  file.ID,
				Start: span.Start + uint32(loc[0]),
				End:   span.Start + uint32(loc[1]),
			}, string(old), string(replacement)))
		}
	}
	return edits
}

// hasLine reports whether the file already contains text as a full line.
func hasLine(file *source.File, text string) bool {
	for _, line := range strings.Split(string(file.Content), "\n") {
		if strings.TrimSpace(line) == text {
			return true
		}
	}
	return false
}

// importInsertion places the import after the leading block of imports,
// comments, and blank lines, or at the very top when there is none.
func importInsertion(file *source.File, importLine string) rewrite.TextEdit {
	var offset uint32
	lineCount := file.LineCount()
scan:
	for lineNum := uint32(1); lineNum <= lineCount; lineNum++ {
		span, ok := file.LineSpan(lineNum)
		if !ok {
			break
		}
		text := strings.TrimSpace(string(file.Content[span.Start:span.End]))
		switch {
		case text == "", strings.HasPrefix(text, "#"):
			continue
		case strings.HasPrefix(text, "import "), strings.HasPrefix(text, "from "):
			offset = span.End + 1 // past the trailing newline
		default:
			break scan // stop at the first statement
		}
	}
	text := importLine + "\n"
	if offset > uint32(len(file.Content)) {
		// The last import line ends the file without a trailing newline;
		// supply the separator ourselves.
		offset = uint32(len(file.Content))
		text = "\n" + text
	}
	return rewrite.Insertion(file.ID, offset, text)
}
