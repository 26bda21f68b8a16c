// Package observ collects per-codemod timing for a run and renders the
// summary printed with --timings.
package observ

import (
	"fmt"
	"time"

	"remedy/internal/runner"
)

// Phase records the duration and outcome note of one codemod's run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of the codemods in a run.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	out := "timings:\n"
	for _, p := range report.Phases {
		out += fmt.Sprintf("  %-36s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out += "  // " + p.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-36s %7.2f ms\n", "total", report.TotalMS)
	return out
}

// PhaseReport is the serialized form of one timed phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the timer's phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases and total duration in milliseconds.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// TimingSink records one timer phase per codemod from runner events. It is
// not safe for concurrent use; the runner emits events sequentially.
type TimingSink struct {
	Timer *Timer
	open  map[string]int
}

// NewTimingSink wires a timer to the runner's progress events.
func NewTimingSink(timer *Timer) *TimingSink {
	return &TimingSink{Timer: timer, open: make(map[string]int)}
}

func (s *TimingSink) OnEvent(evt runner.Event) {
	switch evt.Status {
	case runner.StatusWorking:
		s.open[evt.Codemod] = s.Timer.Begin(evt.Codemod)
	case runner.StatusDone:
		if idx, ok := s.open[evt.Codemod]; ok {
			s.Timer.End(idx, fmt.Sprintf("%d changed", evt.Changed))
		}
	case runner.StatusError:
		if idx, ok := s.open[evt.Codemod]; ok {
			s.Timer.End(idx, "skipped")
		}
	}
}
