package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/cascade"
)

// resultEnvelope is the v1 wire format for a successful cascade.
type resultEnvelope struct {
	Version       int          `json:"version"`
	Content       string       `json:"content"`
	Citations     []string     `json:"citations,omitempty"`
	Usage         usageDTO     `json:"usage"`
	Model         string       `json:"model,omitempty"`
	BackendID     string       `json:"backend_id"`
	DisplayName   string       `json:"display_name"`
	Attempt       int          `json:"attempt"`
	TotalAttempts int          `json:"total_attempts"`
	Failures      []attemptDTO `json:"failures"`
}

// reportEnvelope is the v1 wire format for a failed cascade.
type reportEnvelope struct {
	Version     int          `json:"version"`
	Error       string       `json:"error"`
	Aborted     bool         `json:"aborted"`
	LastMessage string       `json:"last_message,omitempty"`
	Attempts    []attemptDTO `json:"attempts"`
}

// MarshalResult serializes a Result in v1 envelope format.
func MarshalResult(r cascade.Result) ([]byte, error) {
	env := resultEnvelope{
		Version:       version,
		Content:       r.Content,
		Citations:     r.Citations,
		Usage:         usageDTO{InputTokens: r.Usage.InputTokens, OutputTokens: r.Usage.OutputTokens},
		Model:         r.Model,
		BackendID:     r.BackendID,
		DisplayName:   r.DisplayName,
		Attempt:       r.Attempt,
		TotalAttempts: r.TotalAttempts,
		Failures:      marshalAttempts(r.Failures),
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalResult deserializes a Result in v1 envelope format.
func UnmarshalResult(data []byte) (cascade.Result, error) {
	var env resultEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return cascade.Result{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return cascade.Result{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	return cascade.Result{
		Content:       env.Content,
		Citations:     env.Citations,
		Usage:         cascade.Usage{InputTokens: env.Usage.InputTokens, OutputTokens: env.Usage.OutputTokens},
		Model:         env.Model,
		BackendID:     env.BackendID,
		DisplayName:   env.DisplayName,
		Attempt:       env.Attempt,
		TotalAttempts: env.TotalAttempts,
		Failures:      unmarshalAttempts(env.Failures),
	}, nil
}

// MarshalReport serializes a cascade failure in v1 envelope format. When
// err is (or wraps) a [cascade.ExhaustedError], every attempt is listed;
// any other error produces a report with no attempts.
func MarshalReport(err error) ([]byte, error) {
	if err == nil {
		return nil, errors.New("no error to report")
	}
	env := reportEnvelope{
		Version:  version,
		Error:    err.Error(),
		Attempts: []attemptDTO{},
	}
	var exhausted *cascade.ExhaustedError
	if errors.As(err, &exhausted) {
		env.Aborted = exhausted.Aborted()
		env.LastMessage = exhausted.LastMessage
		env.Attempts = marshalAttempts(exhausted.Attempts)
	}
	return json.MarshalIndent(env, "", "  ")
}

// SaveResult writes a Result to a JSON file, creating parent directories as
// needed.
func SaveResult(path string, r cascade.Result) error {
	data, err := MarshalResult(r)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, data)
}

// LoadResult reads a Result from a JSON file.
func LoadResult(path string) (cascade.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cascade.Result{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalResult(data)
}
