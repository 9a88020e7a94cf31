package cascade

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or catalog failed validation.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration indicates the cascade could not be set up, e.g. no
	// backend survived order resolution. No transport call is made.
	ErrConfiguration = errors.New("configuration error")

	// ErrEmptyResponse indicates a backend answered without content.
	ErrEmptyResponse = errors.New("empty response")

	// ErrTimeout indicates an attempt's deadline fired before the
	// transport returned.
	ErrTimeout = errors.New("attempt timeout")
)

// StatusError is returned by transports when the backend answered with a
// non-success status. The classifier reads StatusCode.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ExhaustedError is returned when no backend in the resolved order produced
// a result, either because every backend failed or because an
// authentication failure aborted the cascade.
type ExhaustedError struct {
	Attempts    []Attempt
	LastMessage string

	// cause is set when the caller's context ended the cascade early.
	cause error
}

func (e *ExhaustedError) Error() string {
	n := len(e.Attempts)
	if n == 0 {
		if e.cause != nil {
			return fmt.Sprintf("cascade stopped before any attempt: %v", e.cause)
		}
		return "cascade exhausted without attempts"
	}
	last := e.Attempts[n-1]
	if e.Aborted() {
		return fmt.Sprintf("cascade aborted after %d attempt(s): %s on %s: %s",
			n, last.Class, last.BackendID, e.LastMessage)
	}
	return fmt.Sprintf("all %d attempt(s) failed, last %s on %s: %s",
		n, last.Class, last.BackendID, e.LastMessage)
}

// Unwrap returns the caller's context error when cancellation ended the
// cascade, nil otherwise.
func (e *ExhaustedError) Unwrap() error {
	return e.cause
}

// Aborted reports whether the cascade stopped on an authentication failure
// rather than by running out of backends.
func (e *ExhaustedError) Aborted() bool {
	n := len(e.Attempts)
	return n > 0 && e.Attempts[n-1].Class == AuthFailure
}
