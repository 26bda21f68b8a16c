package codemod

// ChangeSet describes the outcome of successfully transforming one file.
// Immutable once produced by a transformer.
type ChangeSet struct {
	// Path is relative to the execution context directory.
	Path string
	// Diff is the unified diff between the original and rewritten content.
	Diff string
	// LinesChanged counts added plus removed lines in the diff.
	LinesChanged int
	// Description explains the change to a human.
	Description string
	// Rewritten is the full new file content, consumed by the caller's
	// write-back policy. Not part of the reporting surface.
	Rewritten []byte
}
