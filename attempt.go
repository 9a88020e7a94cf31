package cascade

import (
	"slices"
	"time"
)

// Attempt records one failed attempt against one backend.
type Attempt struct {
	Index       int // 1-based position in the resolved order
	BackendID   string
	DisplayName string
	Class       ErrorClass
	Message     string
	StatusCode  int // 0 when the failure carried no status
	Duration    time.Duration
}

// Reporter accumulates the failed attempts of a single Run. It is not safe
// for concurrent use; each Run owns its own.
type Reporter struct {
	attempts []Attempt
}

// Record appends an attempt.
func (r *Reporter) Record(a Attempt) {
	r.attempts = append(r.attempts, a)
}

// All returns the recorded attempts in the order they were recorded.
func (r *Reporter) All() []Attempt {
	return slices.Clone(r.attempts)
}

// Last returns the most recently recorded attempt.
func (r *Reporter) Last() (Attempt, bool) {
	if len(r.attempts) == 0 {
		return Attempt{}, false
	}
	return r.attempts[len(r.attempts)-1], true
}
