package json

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/cascade"
)

// requestEnvelope is the v1 wire format for a request file.
type requestEnvelope struct {
	Version       int          `json:"version"`
	SystemPrompt  string       `json:"system_prompt,omitempty"`
	Messages      []messageDTO `json:"messages"`
	MaxTokens     int          `json:"max_tokens,omitempty"`
	Temperature   *float64     `json:"temperature,omitempty"`
	SearchRecency string       `json:"search_recency,omitempty"`
}

type messageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalRequest serializes a Request in v1 envelope format. Model is not
// written: the cascade chooses it per attempt.
func MarshalRequest(r cascade.Request) ([]byte, error) {
	env := requestEnvelope{
		Version:       version,
		SystemPrompt:  r.SystemPrompt,
		Messages:      make([]messageDTO, len(r.Messages)),
		MaxTokens:     r.MaxTokens,
		Temperature:   r.Temperature,
		SearchRecency: r.SearchRecency,
	}
	for i, m := range r.Messages {
		env.Messages[i] = messageDTO{Role: string(m.Role), Content: m.Content}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalRequest deserializes and validates a Request in v1 envelope
// format.
func UnmarshalRequest(data []byte) (cascade.Request, error) {
	var env requestEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return cascade.Request{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return cascade.Request{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	req := cascade.Request{
		SystemPrompt:  env.SystemPrompt,
		Messages:      make([]cascade.Message, len(env.Messages)),
		MaxTokens:     env.MaxTokens,
		Temperature:   env.Temperature,
		SearchRecency: env.SearchRecency,
	}
	for i, dto := range env.Messages {
		req.Messages[i] = cascade.Message{Role: cascade.Role(dto.Role), Content: dto.Content}
	}
	if err := req.Validate(); err != nil {
		return cascade.Request{}, err
	}
	return req, nil
}

// LoadRequest reads a Request from a JSON file.
func LoadRequest(path string) (cascade.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cascade.Request{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalRequest(data)
}
