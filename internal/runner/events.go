package runner

import "time"

// Status captures progress state for one codemod within a run.
type Status string

const (
	// StatusQueued indicates the codemod is waiting its turn.
	StatusQueued Status = "queued"
	// StatusWorking indicates the codemod is scanning files.
	StatusWorking Status = "working"
	// StatusDone indicates the codemod finished.
	StatusDone Status = "done"
	// StatusError indicates the codemod was skipped after a detector failure.
	StatusError Status = "error"
)

// Event reports progress for one codemod.
type Event struct {
	Codemod string
	Status  Status
	Err     error
	Elapsed time.Duration
	// Changed is the number of files the codemod rewrote, set on done.
	Changed int
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// MultiSink fans every event out to several sinks.
type MultiSink []ProgressSink

func (s MultiSink) OnEvent(evt Event) {
	for _, sink := range s {
		if sink != nil {
			sink.OnEvent(evt)
		}
	}
}
