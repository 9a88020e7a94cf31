// Package json reads and writes cascade values as versioned JSON envelopes.
//
// Requests are read from files so a conversation can be replayed through a
// cascade; results and failure reports are written for scripting.
package json

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/cascade"
)

const version = 1

// attemptDTO is the JSON representation of a failed attempt.
type attemptDTO struct {
	Index       int    `json:"index"`
	BackendID   string `json:"backend_id"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Message     string `json:"message"`
	StatusCode  int    `json:"status_code,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

type usageDTO struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func marshalAttempts(attempts []cascade.Attempt) []attemptDTO {
	result := make([]attemptDTO, len(attempts))
	for i, a := range attempts {
		result[i] = attemptDTO{
			Index:       a.Index,
			BackendID:   a.BackendID,
			DisplayName: a.DisplayName,
			Class:       a.Class.String(),
			Message:     a.Message,
			StatusCode:  a.StatusCode,
			DurationMS:  a.Duration.Milliseconds(),
		}
	}
	return result
}

func unmarshalAttempts(dtos []attemptDTO) []cascade.Attempt {
	result := make([]cascade.Attempt, len(dtos))
	for i, dto := range dtos {
		result[i] = cascade.Attempt{
			Index:       dto.Index,
			BackendID:   dto.BackendID,
			DisplayName: dto.DisplayName,
			Class:       cascade.ParseErrorClass(dto.Class),
			Message:     dto.Message,
			StatusCode:  dto.StatusCode,
			Duration:    time.Duration(dto.DurationMS) * time.Millisecond,
		}
	}
	return result
}

// writeFile writes data atomically, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
