// Package pipeline carries progress events from the driver to whoever
// renders them (the progress TUI, tests).
package pipeline

import (
	"sync"
	"time"
)

// Stage describes a step of the per-file pipeline.
type Stage string

const (
	// StageRead loads and decodes the file.
	StageRead Stage = "read"
	// StageExtract finds class sites.
	StageExtract Stage = "extract"
	// StageExpand expands groups and builds edits or diagnostics.
	StageExpand Stage = "expand"
	// StageWrite writes the rewritten file back.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is in Stage.
	StatusWorking Status = "working"
	// StatusCached indicates a cache hit skipped the file.
	StatusCached Status = "cached"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Finished reports whether no further events follow for the file.
func (s Status) Finished() bool {
	return s == StatusDone || s == StatusError || s == StatusCached
}

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. Implementations must be goroutine-safe.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent sends evt, blocking until the reader takes it.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Recorder keeps every event; used by tests and --ui=off summaries.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// OnEvent stores evt.
func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Emit sends evt when sink is non-nil.
func Emit(sink Sink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Queue emits StatusQueued for every file.
func Queue(sink Sink, files []string) {
	if sink == nil {
		return
	}
	for _, f := range files {
		sink.OnEvent(Event{File: f, Stage: StageRead, Status: StatusQueued})
	}
}
