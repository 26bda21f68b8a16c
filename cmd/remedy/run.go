package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"remedy/internal/codemods"
	"remedy/internal/config"
	"remedy/internal/observ"
	"remedy/internal/report"
	"remedy/internal/reportcache"
	"remedy/internal/runner"
	"remedy/internal/version"
)

func init() {
	flags := rootCmd.Flags()
	flags.Bool("dry-run", false, "compute changes without modifying files")
	flags.String("output", "", "path for the result document (default: no document)")
	flags.StringSlice("path-include", nil, "glob patterns selecting candidate files, optionally line-qualified")
	flags.StringSlice("path-exclude", nil, "glob patterns removing candidate files, optionally line-qualified")
	flags.Int("max-workers", 0, "bound on concurrent file scans per codemod (default 1)")
	flags.StringSlice("codemod-include", nil, "codemod names to run (default: all)")
	flags.StringSlice("codemod-exclude", nil, "codemod names to skip")
	flags.StringSlice("sarif", nil, "SARIF report files feeding detector-gated codemods")
	flags.StringSlice("sonar-issues", nil, "Sonar issues JSON exports")
	flags.Bool("no-report-cache", false, "disable reuse of normalized findings for unchanged reports")
	flags.String("ui", "auto", "interactive progress display (auto|on|off)")
	flags.Bool("timings", false, "show per-codemod timing information")
}

// runOptions is the merged view of remedy.toml and the command line; a flag
// set on the command line wins over the manifest.
type runOptions struct {
	runner.Options
	output      string
	sarif       []string
	sonarIssues []string
	noCache     bool
	ui          uiMode
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := mergeOptions(cmd, args[0])
	if err != nil {
		return err
	}

	cacheDir := ""
	if !opts.noCache && (len(opts.sarif) > 0 || len(opts.sonarIssues) > 0) {
		if base, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(base, "remedy", "reports")
		}
	}
	modOpts := codemods.Options{
		SarifPaths: opts.sarif,
		SonarPaths: opts.sonarIssues,
	}
	if cacheDir != "" {
		modOpts.Cache = reportcache.New(cacheDir)
	}
	reg := codemods.DefaultRegistry(modOpts)

	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		opts.Progress = observ.NewTimingSink(timer)
	}

	res, err := runWithOptionalUI(cmd.Context(), reg, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Codemods) == 0 {
		fmt.Fprintln(out, "no codemods to run")
		return nil
	}
	if opts.DryRun {
		fmt.Fprintln(out, "dry run, not changing files")
	}
	for id, skipErr := range res.Skipped {
		fmt.Fprintf(out, "skipped %s: %v\n", id, skipErr)
	}

	if opts.output != "" {
		doc := report.Build(res.Context, res.Codemods, report.RunInfo{
			Version:     version.Plain(),
			CommandLine: os.Args[1:],
			ElapsedMS:   res.Elapsed.Milliseconds(),
			Directory:   res.Context.Dir,
			DryRun:      opts.DryRun,
			Sarifs:      opts.sarif,
		})
		if err := doc.Write(opts.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "report file: %s\n", opts.output)
	}

	fmt.Fprintf(out, "scanned: %d files\n", len(res.Files))
	fmt.Fprintf(out, "failed: %d files\n", len(res.Context.FailedFiles()))
	fmt.Fprintf(out, "changed: %d files\n", len(res.Context.ChangedFiles()))
	fmt.Fprintf(out, "elapsed: %d ms\n", res.Elapsed.Milliseconds())
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
	return nil
}

func mergeOptions(cmd *cobra.Command, dir string) (runOptions, error) {
	cfg, err := config.Discover(dir)
	if err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		Options: runner.Options{
			Dir:            dir,
			DryRun:         cfg.Run.DryRun,
			MaxWorkers:     cfg.Run.MaxWorkers,
			PathInclude:    cfg.Run.PathInclude,
			PathExclude:    cfg.Run.PathExclude,
			CodemodInclude: cfg.Codemods.Include,
			CodemodExclude: cfg.Codemods.Exclude,
		},
		output:      cfg.Run.Output,
		sarif:       cfg.Reports.Sarif,
		sonarIssues: cfg.Reports.SonarIssues,
	}

	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		opts.DryRun, err = flags.GetBool("dry-run")
		if err != nil {
			return runOptions{}, err
		}
	}
	if flags.Changed("max-workers") {
		opts.MaxWorkers, err = flags.GetInt("max-workers")
		if err != nil {
			return runOptions{}, err
		}
	}
	if flags.Changed("output") {
		opts.output, err = flags.GetString("output")
		if err != nil {
			return runOptions{}, err
		}
	}
	for _, s := range []struct {
		name string
		dst  *[]string
	}{
		{"path-include", &opts.PathInclude},
		{"path-exclude", &opts.PathExclude},
		{"codemod-include", &opts.CodemodInclude},
		{"codemod-exclude", &opts.CodemodExclude},
		{"sarif", &opts.sarif},
		{"sonar-issues", &opts.sonarIssues},
	} {
		if flags.Changed(s.name) {
			*s.dst, err = flags.GetStringSlice(s.name)
			if err != nil {
				return runOptions{}, err
			}
		}
	}
	opts.noCache, err = flags.GetBool("no-report-cache")
	if err != nil {
		return runOptions{}, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return runOptions{}, err
	}
	opts.ui, err = readUIMode(uiValue)
	if err != nil {
		return runOptions{}, err
	}
	return opts, nil
}
