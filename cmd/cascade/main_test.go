package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/cascade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions(t *testing.T) options {
	t.Helper()
	o, _, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)
	return o
}

func TestParseFlags(t *testing.T) {
	t.Parallel()
	o, rest, err := parseFlags([]string{
		"-provider", "perplexity",
		"-order", "sonar,sonar-pro",
		"-timeout", "5s",
		"-temperature", "0.4",
		"-json",
		"What", "moved", "AAPL?",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "perplexity", o.provider)
	assert.Equal(t, "sonar,sonar-pro", o.order)
	assert.Equal(t, 5*time.Second, o.timeout)
	assert.InDelta(t, 0.4, o.temperature, 1e-9)
	assert.True(t, o.jsonOut)
	assert.Equal(t, []string{"What", "moved", "AAPL?"}, rest)
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()
	o := defaultOptions(t)
	assert.Equal(t, cascade.DefaultAttemptTimeout, o.timeout)
	assert.Equal(t, "warn", o.logLevel)
	assert.Equal(t, float64(noTemperature), o.temperature)
}

func TestBuildRequest_FromArgs(t *testing.T) {
	t.Parallel()
	req, err := buildRequest(defaultOptions(t), []string{"Analyse", "AAPL"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, cascade.RoleUser, req.Messages[0].Role)
	assert.Equal(t, "Analyse AAPL", req.Messages[0].Content)
	assert.Nil(t, req.Temperature)
	assert.Zero(t, req.MaxTokens)
}

func TestBuildRequest_FromStdin(t *testing.T) {
	t.Parallel()
	req, err := buildRequest(defaultOptions(t), nil, strings.NewReader("  Quel est le cours du CAC 40 ?\n"))
	require.NoError(t, err)
	assert.Equal(t, "Quel est le cours du CAC 40 ?", req.Messages[0].Content)
}

func TestBuildRequest_NoPrompt(t *testing.T) {
	t.Parallel()
	_, err := buildRequest(defaultOptions(t), nil, strings.NewReader("   \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no prompt")
}

func TestBuildRequest_Overrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	promptPath := filepath.Join(dir, "prompt.md")
	require.NoError(t, os.WriteFile(promptPath, []byte("You are Emma."), 0o600))

	o := defaultOptions(t)
	o.systemPrompt = promptPath
	o.maxTokens = 300
	o.temperature = 0
	o.recency = "day"

	req, err := buildRequest(o, []string{"hi"}, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "You are Emma.", req.SystemPrompt)
	assert.Equal(t, 300, req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.Zero(t, *req.Temperature)
	assert.Equal(t, "day", req.SearchRecency)
}

func TestBuildRequest_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": 1,
		"system_prompt": "file prompt",
		"messages": [
			{"role": "user", "content": "first"},
			{"role": "assistant", "content": "answer"},
			{"role": "user", "content": "follow-up"}
		],
		"max_tokens": 100
	}`), 0o600))

	o := defaultOptions(t)
	o.requestPath = path
	o.maxTokens = 50

	req, err := buildRequest(o, []string{"ignored"}, strings.NewReader(""))
	require.NoError(t, err)
	assert.Len(t, req.Messages, 3)
	assert.Equal(t, "file prompt", req.SystemPrompt)
	assert.Equal(t, 50, req.MaxTokens)
}

func TestBuildRequest_Invalid(t *testing.T) {
	t.Parallel()
	o := defaultOptions(t)
	o.temperature = 5
	_, err := buildRequest(o, []string{"hi"}, strings.NewReader(""))
	assert.ErrorIs(t, err, cascade.ErrValidation)
}

func TestParseOrder(t *testing.T) {
	t.Parallel()
	assert.Nil(t, parseOrder(""))
	assert.Nil(t, parseOrder("  "))
	assert.Equal(t, []string{"sonar", "sonar-pro"}, parseOrder("sonar, sonar-pro"))
	assert.Equal(t, []string{"a", "b"}, parseOrder("a,,b,"))
}

func testResult() cascade.Result {
	return cascade.Result{
		Content:       "AAPL closed higher.\n",
		Citations:     []string{"https://a.example", "https://b.example"},
		BackendID:     "sonar",
		DisplayName:   "Sonar",
		Attempt:       2,
		TotalAttempts: 3,
		Failures:      []cascade.Attempt{{Index: 1, BackendID: "sonar-pro", Class: cascade.QuotaExceeded}},
	}
}

func TestWriteResult_Text(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, testResult(), false))
	assert.Equal(t, "AAPL closed higher.\n\nSources:\n[1] https://a.example\n[2] https://b.example\n\n(Sonar, attempt 2/3)\n", buf.String())
}

func TestWriteResult_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, testResult(), true))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "sonar", raw["backend_id"])
	assert.Len(t, raw["failures"], 1)
}

func TestReportFailure(t *testing.T) {
	t.Parallel()
	runErr := &cascade.ExhaustedError{
		Attempts:    []cascade.Attempt{{Index: 1, BackendID: "sonar-pro", Class: cascade.AuthFailure, Message: "HTTP 401"}},
		LastMessage: "HTTP 401",
	}
	var buf bytes.Buffer
	err := reportFailure(&buf, runErr)
	assert.Same(t, runErr, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, true, raw["aborted"])
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		env     envKeys
		wantErr string
	}{
		{name: "bad log level", args: []string{"-log-level", "loud", "hi"}, env: envKeys{perplexity: "k"}, wantErr: "unknown log level"},
		{name: "no keys", args: []string{"hi"}, wantErr: "no API key found"},
		{name: "missing catalog", args: []string{"-catalog", "/nonexistent/catalog.yaml", "hi"}, env: envKeys{perplexity: "k"}, wantErr: "load catalog"},
		{name: "unknown flag", args: []string{"-bogus"}, wantErr: "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := run(context.Background(), tt.args, tt.env, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"-h"}, envKeys{}, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "-order")
}

func TestRun_OrderMatchesNothing(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-order", "gpt-4", "hi"}, envKeys{perplexity: "k"}, strings.NewReader(""), &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, cascade.ErrConfiguration)
	assert.Empty(t, stdout.String())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &raw), fmt.Sprintf("stderr: %s", stderr.String()))
	assert.Equal(t, "no backends resolved: configuration error", raw["error"])
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	metrics := filepath.Join(t.TempDir(), "metrics.prom")
	var stderr bytes.Buffer
	err := run(ctx, []string{"-metrics-file", metrics, "hi"}, envKeys{perplexity: "k"}, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	_, statErr := os.Stat(metrics)
	assert.NoError(t, statErr)
}
