package observ

import (
	"strings"
	"testing"

	"remedy/internal/runner"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("remedy:python/secure-random")
	timer.End(idx, "2 changed")

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(report.Phases))
	}
	if report.Phases[0].Name != "remedy:python/secure-random" || report.Phases[0].Note != "2 changed" {
		t.Fatalf("phase = %+v", report.Phases[0])
	}
	if report.TotalMS < 0 {
		t.Fatalf("total = %v", report.TotalMS)
	}

	summary := timer.Summary()
	if !strings.Contains(summary, "secure-random") || !strings.Contains(summary, "total") {
		t.Fatalf("summary missing entries:\n%s", summary)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(3, "nope") // must not panic
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("phases = %+v", got.Phases)
	}
}

func TestTimingSink(t *testing.T) {
	timer := NewTimer()
	sink := NewTimingSink(timer)

	sink.OnEvent(runner.Event{Codemod: "a", Status: runner.StatusQueued})
	sink.OnEvent(runner.Event{Codemod: "a", Status: runner.StatusWorking})
	sink.OnEvent(runner.Event{Codemod: "a", Status: runner.StatusDone, Changed: 3})
	sink.OnEvent(runner.Event{Codemod: "b", Status: runner.StatusWorking})
	sink.OnEvent(runner.Event{Codemod: "b", Status: runner.StatusError})

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %+v", report.Phases)
	}
	if report.Phases[0].Note != "3 changed" {
		t.Fatalf("phase a note = %q", report.Phases[0].Note)
	}
	if report.Phases[1].Note != "skipped" {
		t.Fatalf("phase b note = %q", report.Phases[1].Note)
	}
}
