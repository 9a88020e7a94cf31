package cascade

import (
	"fmt"
	"slices"
	"strings"
)

// Message is one turn of the conversation sent to a backend.
type Message struct {
	Role    Role
	Content string
}

// Request carries the payload sent to every backend of a cascade. Model is
// the backend selector: the cascade overwrites it with each backend's ID.
// Transports use their own defaults when other fields are zero/nil.
type Request struct {
	Model         string
	SystemPrompt  string
	Messages      []Message
	MaxTokens     int      // 0 = transport default
	Temperature   *float64 // nil = transport default
	SearchRecency string   // web-search recency hint ("day", "week", ...); ignored by backends without search
}

// Validate checks universal constraints on Request.
// Transports may apply additional backend-specific validation.
func (r Request) Validate() error {
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("request has no messages: %w", ErrValidation)
	}
	for i, m := range r.Messages {
		if err := ValidateMessage(m); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

// ValidateMessage checks that a message has a known role and content.
func ValidateMessage(m Message) error {
	switch m.Role {
	case RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("unknown role %q: %w", m.Role, ErrValidation)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("empty %s message: %w", m.Role, ErrValidation)
	}
	return nil
}

// forBackend returns a copy of r addressed to the given backend. The
// Messages slice is cloned so a transport appending to it cannot affect
// later attempts.
func (r Request) forBackend(id string) Request {
	r.Model = id
	r.Messages = slices.Clone(r.Messages)
	if r.Temperature != nil {
		t := *r.Temperature
		r.Temperature = &t
	}
	return r
}
