package cascade

import "time"

// Event is a sealed interface representing an attempt lifecycle event.
// Events are purely observational; handlers cannot influence the cascade.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventAttemptStart is emitted before the transport is called.
type EventAttemptStart struct {
	Attempt int
	Total   int
	Backend Backend
}

func (EventAttemptStart) event() {}

// EventAttemptSuccess is emitted when an attempt produced content.
type EventAttemptSuccess struct {
	Attempt  int
	Total    int
	Backend  Backend
	Duration time.Duration
}

func (EventAttemptSuccess) event() {}

// EventAttemptFailure is emitted after a failed attempt has been recorded.
type EventAttemptFailure struct {
	Record Attempt
	Total  int
}

func (EventAttemptFailure) event() {}

// Interface compliance checks.
var (
	_ Event = EventAttemptStart{}
	_ Event = EventAttemptSuccess{}
	_ Event = EventAttemptFailure{}
)
