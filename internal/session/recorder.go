package session

import (
	"strings"
	"sync"
	"time"
)

// EventKind tags one recorded event in a forked session's timeline.
type EventKind string

const (
	EventToolCall EventKind = "tool_call"
	EventStdout   EventKind = "stdout"
	EventStderr   EventKind = "stderr"
	EventResult   EventKind = "result"
)

// Event is one entry in a Recorder's ordered log.
type Event struct {
	Kind    EventKind
	Payload string
	Time    time.Time
}

// Recorder captures an ordered event log for a forked context. Only
// result events (falling back to stdout) ever escape into a summary;
// tool_call and stderr events are never exposed outside the fork (§4.5,
// fork-opacity property in §8).
type Recorder struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Record appends an event of the given kind.
func (r *Recorder) Record(kind EventKind, payload string) {
	r.mu.Lock()
	r.events = append(r.events, Event{Kind: kind, Payload: payload, Time: r.now()})
	r.mu.Unlock()
}

// Events returns a snapshot of the recorded log, in append order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Summarize builds the caller-visible summary: the concatenation of
// every result event's payload, joined by newlines; if no result event
// was recorded, it falls back to concatenated stdout. tool_call and
// stderr events never contribute.
func (r *Recorder) Summarize() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []string
	for _, e := range r.events {
		if e.Kind == EventResult {
			results = append(results, e.Payload)
		}
	}
	if len(results) > 0 {
		return strings.Join(results, "\n")
	}

	var stdout []string
	for _, e := range r.events {
		if e.Kind == EventStdout {
			stdout = append(stdout, e.Payload)
		}
	}
	return strings.Join(stdout, "")
}
