package codemod

import (
	"remedy/internal/finding"
	"remedy/internal/linefilter"
	"remedy/internal/source"
)

// FileContext is the execution state and outcome for one (codemod, file)
// pair. It is created by the file execution unit, handed to the transformer,
// and returned unconditionally so every file is accounted for in reporting.
type FileContext struct {
	// Dir is the target directory the run operates on.
	Dir string
	// Path is the absolute path of the file.
	Path string
	// LineFilter holds the excluded/included line ranges for this file.
	// Transformers consult it per candidate location; it is not enforced
	// centrally because only the transformer knows where an edit lands.
	LineFilter linefilter.Filter
	// Findings are the detector results applicable to this file. Nil for
	// detector-less codemods; empty but non-nil when a detector ran and
	// found nothing.
	Findings []finding.Finding
	// Results accumulates the change sets produced for this file,
	// normally zero or one.
	Results []*ChangeSet
	// Failure records a recovered per-file error; the file produced no
	// change but the codemod run as a whole still completes.
	Failure error

	fileSet *source.FileSet
	loaded  bool
	fileID  source.FileID
	loadErr error
}

// NewFileContext builds the context for one file, computing its line filter
// from the process-wide patterns.
func NewFileContext(ec *ExecutionContext, path string) *FileContext {
	fc := &FileContext{
		Dir:  ec.Dir,
		Path: path,
	}
	fc.LineFilter = linefilter.ForFile(fc.RelPath(), ec.PathExclude, ec.PathInclude)
	return fc
}

// RelPath returns the file path relative to the run directory, or the
// absolute path when the file lives outside it.
func (fc *FileContext) RelPath() string {
	rel, err := source.RelativePath(fc.Path, fc.Dir)
	if err != nil {
		return fc.Path
	}
	return rel
}

// File parses (loads) the file exactly once and returns it. Transformers
// must obtain the file through this accessor so re-entrant transformer
// passes share a single parse.
func (fc *FileContext) File() (*source.File, error) {
	if !fc.loaded {
		fc.loaded = true
		fs := source.NewFileSetWithBase(fc.Dir)
		id, err := fs.Load(fc.Path)
		if err != nil {
			fc.loadErr = err
			return nil, err
		}
		fc.fileSet = fs
		fc.fileID = id
	}
	if fc.loadErr != nil {
		return nil, fc.loadErr
	}
	return fc.fileSet.Get(fc.fileID), nil
}

// AddResult attaches a change set to the file's outcome.
func (fc *FileContext) AddResult(cs *ChangeSet) {
	fc.Results = append(fc.Results, cs)
}

// Changed reports whether any change set was produced for the file.
func (fc *FileContext) Changed() bool {
	return len(fc.Results) > 0
}
