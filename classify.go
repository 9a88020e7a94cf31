package cascade

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrorClass is the taxonomy a failed attempt is classified into.
type ErrorClass int

const (
	Transient ErrorClass = iota
	QuotaExceeded
	Timeout
	AuthFailure
	EmptyResponse
)

var errorClassNames = [...]string{"transient", "quota_exceeded", "timeout", "auth_failure", "empty_response"}

func (c ErrorClass) String() string {
	if c < 0 || int(c) >= len(errorClassNames) {
		return "unknown"
	}
	return errorClassNames[c]
}

// ParseErrorClass returns the class with the given String form. Unknown
// names parse as Transient.
func ParseErrorClass(s string) ErrorClass {
	for i, name := range errorClassNames {
		if name == s {
			return ErrorClass(i)
		}
	}
	return Transient
}

// Recoverable reports whether the cascade may move on to the next backend
// after a failure of this class.
func (c ErrorClass) Recoverable() bool {
	return c != AuthFailure
}

// Classify maps a failed attempt's error to exactly one ErrorClass. Rules
// are checked in order and the first match wins:
//
//  1. status 429, or message mentions "quota" or "rate limit": QuotaExceeded
//  2. attempt deadline or cancellation fired, or message mentions
//     "timeout" or "aborted": Timeout
//  3. status 401 or 403, or message mentions "unauthorized" or
//     "invalid api key": AuthFailure
//  4. ErrEmptyResponse in the chain: EmptyResponse
//  5. anything else: Transient
//
// Message matching is case-insensitive. Classify is pure.
func Classify(err error) ErrorClass {
	if err == nil {
		return Transient
	}
	status := StatusCode(err)
	msg := strings.ToLower(err.Error())

	switch {
	case status == http.StatusTooManyRequests,
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"):
		return QuotaExceeded
	case errors.Is(err, ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "aborted"):
		return Timeout
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "invalid api key"):
		return AuthFailure
	case errors.Is(err, ErrEmptyResponse):
		return EmptyResponse
	default:
		return Transient
	}
}

// StatusCode returns the status carried by a *StatusError in err's chain,
// or 0 if there is none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
