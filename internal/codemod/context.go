package codemod

import (
	"errors"
	"fmt"
)

// ErrDuplicateResults indicates results were recorded twice for the same
// codemod id. This is a pipeline bug, not a user-recoverable condition.
var ErrDuplicateResults = errors.New("results already recorded for codemod")

// ExecutionContext carries the process-wide configuration for one run plus
// the aggregator of per-file outcomes. Configuration fields are read-only
// during file fan-outs; the aggregator is written only by the orchestrator
// after a codemod's fan-out has fully joined, so no locking is needed.
type ExecutionContext struct {
	// Dir is the absolute target directory.
	Dir string
	// DryRun disables write-back; the pipeline itself never writes files.
	DryRun bool
	// MaxWorkers bounds the per-codemod file fan-out. Values < 1 mean 1.
	MaxWorkers int
	// PathInclude and PathExclude are the process-wide glob patterns,
	// optionally line-qualified ("path:3", "path:5-10").
	PathInclude []string
	PathExclude []string

	results map[string][]*FileContext
	order   []string
}

// NewExecutionContext creates a context for the target directory with the
// default worker count of 1.
func NewExecutionContext(dir string) *ExecutionContext {
	return &ExecutionContext{
		Dir:        dir,
		MaxWorkers: 1,
		results:    make(map[string][]*FileContext),
	}
}

// Workers returns the effective fan-out bound.
func (ec *ExecutionContext) Workers() int {
	if ec.MaxWorkers < 1 {
		return 1
	}
	return ec.MaxWorkers
}

// recordResults stores the joined outcomes of one codemod's fan-out, keyed
// by codemod id. Exactly one write per codemod is allowed.
func (ec *ExecutionContext) recordResults(id string, contexts []*FileContext) error {
	if ec.results == nil {
		ec.results = make(map[string][]*FileContext)
	}
	if _, exists := ec.results[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResults, id)
	}
	ec.results[id] = contexts
	ec.order = append(ec.order, id)
	return nil
}

// CodemodIDs returns the ids with recorded results, in application order.
func (ec *ExecutionContext) CodemodIDs() []string {
	out := make([]string, len(ec.order))
	copy(out, ec.order)
	return out
}

// ResultsFor returns the ordered per-file outcomes for a codemod id.
func (ec *ExecutionContext) ResultsFor(id string) []*FileContext {
	return ec.results[id]
}

// ChangedFiles returns the path of every file context that produced at
// least one change, across all codemods, in application order.
func (ec *ExecutionContext) ChangedFiles() []string {
	var out []string
	for _, id := range ec.order {
		for _, fc := range ec.results[id] {
			if len(fc.Results) > 0 {
				out = append(out, fc.Path)
			}
		}
	}
	return out
}

// FailedFiles returns the path of every file context that recorded a
// per-file failure, across all codemods.
func (ec *ExecutionContext) FailedFiles() []string {
	var out []string
	for _, id := range ec.order {
		for _, fc := range ec.results[id] {
			if fc.Failure != nil {
				out = append(out, fc.Path)
			}
		}
	}
	return out
}
