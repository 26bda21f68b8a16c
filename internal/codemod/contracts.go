package codemod

import (
	"context"

	"remedy/internal/finding"
)

// Detector supplies the findings telling a codemod where to act.
//
// Implementations must be deterministic for a fixed report input and must
// not mutate the context or the file list. A failure to obtain or parse
// results is terminal for that codemod's invocation; a zero-finding index
// for a well-formed input is valid success.
type Detector interface {
	Detect(ctx context.Context, rule string, ec *ExecutionContext, files []string) (*finding.ResultIndex, error)
}

// Transformer performs the actual rewrite for one file.
//
// It must parse the file exactly once (via FileContext.File), apply zero or
// more rewrites guided by findings and/or its own matching, and return nil
// when the file is left unchanged. It must never write to disk — write-back
// is the caller's decision, honoring the dry-run policy — and must be safe
// to invoke concurrently for different files.
//
// A detector-gated transformer receiving an empty (non-nil) findings slice
// must return nil rather than detect work on its own: the "where" belongs
// entirely to the ResultIndex. Detector-less transformers (nil findings)
// compute "where" internally.
type Transformer interface {
	Transform(ec *ExecutionContext, fc *FileContext, findings []finding.Finding) (*ChangeSet, error)
}

// TransformerFunc adapts a plain function to the Transformer interface.
type TransformerFunc func(ec *ExecutionContext, fc *FileContext, findings []finding.Finding) (*ChangeSet, error)

func (f TransformerFunc) Transform(ec *ExecutionContext, fc *FileContext, findings []finding.Finding) (*ChangeSet, error) {
	return f(ec, fc, findings)
}
