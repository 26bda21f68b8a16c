// Package runner orchestrates a whole run: match candidate files under the
// target directory, apply the selected codemods one at a time, write changed
// files back, and report progress along the way.
package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"remedy/internal/codemod"
	"remedy/internal/linefilter"
	"remedy/internal/source"
)

// Options configures one run.
type Options struct {
	// Dir is the target directory.
	Dir string
	// DryRun computes changes without writing files back.
	DryRun bool
	// MaxWorkers bounds the per-codemod file fan-out. Values < 1 mean 1.
	MaxWorkers int
	// PathInclude and PathExclude select candidate files; line-qualified
	// patterns additionally restrict lines within matched files.
	PathInclude []string
	PathExclude []string
	// CodemodInclude and CodemodExclude select codemods by name.
	CodemodInclude []string
	CodemodExclude []string
	// Progress receives per-codemod events. Nil disables reporting.
	Progress ProgressSink
}

// Result is the outcome of a run.
type Result struct {
	// Context holds the per-codemod, per-file outcomes.
	Context *codemod.ExecutionContext
	// Codemods are the selected codemods in application order.
	Codemods []*codemod.Codemod
	// Files are the matched candidate files.
	Files []string
	// Skipped maps the id of every codemod whose detector failed to the
	// error that caused the skip.
	Skipped map[string]error
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Run validates the options, matches candidate files, and applies the
// selected codemods sequentially. A detector failure skips that codemod and
// the run continues; context cancellation aborts the whole run.
func Run(ctx context.Context, reg *codemod.Registry, opts Options) (*Result, error) {
	start := time.Now()

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory %s: %w", opts.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", opts.Dir)
	}
	if err := linefilter.ValidatePatterns(opts.PathInclude); err != nil {
		return nil, err
	}
	if err := linefilter.ValidatePatterns(opts.PathExclude); err != nil {
		return nil, err
	}
	if len(opts.CodemodInclude) > 0 && len(opts.CodemodExclude) > 0 {
		return nil, fmt.Errorf("codemod include and exclude are mutually exclusive")
	}

	mods := reg.Select(opts.CodemodInclude, opts.CodemodExclude)
	res := &Result{
		Codemods: mods,
		Skipped:  make(map[string]error),
	}
	if len(mods) == 0 {
		res.Elapsed = time.Since(start)
		return res, nil
	}

	files, err := MatchFiles(dir, opts.PathExclude, opts.PathInclude)
	if err != nil {
		return nil, err
	}
	res.Files = files

	ec := codemod.NewExecutionContext(dir)
	ec.DryRun = opts.DryRun
	ec.MaxWorkers = opts.MaxWorkers
	ec.PathInclude = opts.PathInclude
	ec.PathExclude = opts.PathExclude
	res.Context = ec

	for _, mod := range mods {
		opts.emit(Event{Codemod: mod.ID(), Status: StatusQueued})
	}

	for _, mod := range mods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts.emit(Event{Codemod: mod.ID(), Status: StatusWorking})

		modStart := time.Now()
		if err := mod.Apply(ctx, ec, files); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			// Terminal for this codemod only.
			res.Skipped[mod.ID()] = err
			opts.emit(Event{Codemod: mod.ID(), Status: StatusError, Err: err, Elapsed: time.Since(modStart)})
			continue
		}

		contexts := ec.ResultsFor(mod.ID())
		if !opts.DryRun {
			writeBack(contexts)
		}

		changed := 0
		for _, fc := range contexts {
			if len(fc.Results) > 0 && fc.Failure == nil {
				changed++
			}
		}
		opts.emit(Event{Codemod: mod.ID(), Status: StatusDone, Elapsed: time.Since(modStart), Changed: changed})
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// writeBack stores rewritten contents on disk so later codemods observe the
// earlier ones' changes. Content is re-encoded to the file's original BOM
// and line endings; a failed write is recorded as the file's failure.
func writeBack(contexts []*codemod.FileContext) {
	for _, fc := range contexts {
		if len(fc.Results) == 0 || fc.Failure != nil {
			continue
		}
		cs := fc.Results[len(fc.Results)-1]
		data := cs.Rewritten
		if file, err := fc.File(); err == nil {
			data = source.Encode(data, file.Flags)
		}
		mode := fs.FileMode(0o644)
		if info, err := os.Stat(fc.Path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(fc.Path, data, mode); err != nil {
			fc.Failure = fmt.Errorf("write back: %w", err)
		}
	}
}

// MatchFiles walks dir and returns the absolute paths of candidate files in
// lexical order. A file is a candidate when it matches an include pattern
// (all files when none are given) and no whole-file exclude pattern; line
// qualified excludes restrict lines, never whole files. Hidden directories
// are not descended into.
func MatchFiles(dir string, exclude, include []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(include, rel, true) {
			return nil
		}
		for _, pat := range exclude {
			if linefilter.LineQualified(pat) {
				continue
			}
			if linefilter.MatchFile(pat, rel) {
				return nil
			}
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("match files: %w", err)
	}
	return out, nil
}

func matchesAny(patterns []string, rel string, emptyMeansAll bool) bool {
	if len(patterns) == 0 {
		return emptyMeansAll
	}
	for _, pat := range patterns {
		if linefilter.MatchFile(pat, rel) {
			return true
		}
	}
	return false
}

func (o Options) emit(evt Event) {
	if o.Progress != nil {
		o.Progress.OnEvent(evt)
	}
}
