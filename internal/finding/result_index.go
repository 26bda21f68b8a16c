package finding

import "path/filepath"

type indexKey struct {
	rule string
	path string
}

// ResultIndex maps (rule id, file path) to the ordered findings for that
// pair. It is built once per codemod invocation and read-only afterward,
// so it is safe to share across concurrent readers.
type ResultIndex struct {
	byKey map[indexKey][]Finding
	total int
}

// NewResultIndex builds an index from already-normalized findings, keeping
// insertion order within each (rule, file) bucket.
func NewResultIndex(findings []Finding) *ResultIndex {
	idx := &ResultIndex{byKey: make(map[indexKey][]Finding)}
	for _, f := range findings {
		key := indexKey{rule: f.RuleID, path: f.Path}
		idx.byKey[key] = append(idx.byKey[key], f)
		idx.total++
	}
	return idx
}

// ForRuleAndFile returns the findings for the rule in the given file, in
// report order. The path is normalized the same way findings are keyed.
// Returns nil when there are none.
func (idx *ResultIndex) ForRuleAndFile(rule, path string) []Finding {
	if idx == nil {
		return nil
	}
	path = filepath.ToSlash(filepath.Clean(path))
	return idx.byKey[indexKey{rule: rule, path: path}]
}

// Len returns the total number of findings in the index.
func (idx *ResultIndex) Len() int {
	if idx == nil {
		return 0
	}
	return idx.total
}

// HasRule reports whether any finding in the index carries the rule id.
func (idx *ResultIndex) HasRule(rule string) bool {
	if idx == nil {
		return false
	}
	for key := range idx.byKey {
		if key.rule == rule {
			return true
		}
	}
	return false
}
