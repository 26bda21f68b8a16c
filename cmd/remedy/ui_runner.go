package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"remedy/internal/codemod"
	"remedy/internal/runner"
	"remedy/internal/ui"
)

type runOutcome struct {
	result *runner.Result
	err    error
}

func runWithOptionalUI(ctx context.Context, reg *codemod.Registry, opts runOptions) (*runner.Result, error) {
	if !shouldUseTUI(opts.ui) {
		return runner.Run(ctx, reg, opts.Options)
	}

	ids := make([]string, 0)
	for _, mod := range reg.Select(opts.CodemodInclude, opts.CodemodExclude) {
		ids = append(ids, mod.ID())
	}
	if len(ids) == 0 {
		return runner.Run(ctx, reg, opts.Options)
	}

	events := make(chan runner.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		runOpts := opts.Options
		sink := runner.ProgressSink(runner.ChannelSink{Ch: events})
		if runOpts.Progress != nil {
			sink = runner.MultiSink{runOpts.Progress, sink}
		}
		runOpts.Progress = sink
		res, err := runner.Run(ctx, reg, runOpts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("remedy "+opts.Dir, ids, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
