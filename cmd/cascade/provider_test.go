package main

import (
	"context"
	"testing"

	"github.com/fwojciec/cascade/anthropic"
	"github.com/fwojciec/cascade/gemini"
	"github.com/fwojciec/cascade/perplexity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvider_Explicit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{name: "perplexity", want: "sonar-pro"},
		{name: "anthropic", want: "claude-sonnet-4-20250514"},
		{name: "gemini", want: "gemini-2.5-pro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := resolveProvider(context.Background(), tt.name, "key", envKeys{})
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.name)
			assert.NotNil(t, p.transport)
			assert.Equal(t, tt.want, p.catalog.Backends()[0].ID)
		})
	}
}

func TestResolveProvider_UnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), "openai", "key", envKeys{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestResolveProvider_NoKeysNoFlag(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), "", "", envKeys{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key found")
}

func TestResolveProvider_MultipleKeysNoFlag(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), "", "", envKeys{perplexity: "pplx", gemini: "gk"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple API keys found (perplexity, gemini)")
}

func TestResolveProvider_AutoDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  envKeys
		want string
	}{
		{name: "perplexity", env: envKeys{perplexity: "pplx"}, want: "perplexity"},
		{name: "anthropic", env: envKeys{anthropic: "sk-ant"}, want: "anthropic"},
		{name: "gemini", env: envKeys{gemini: "gk"}, want: "gemini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := resolveProvider(context.Background(), "", "", tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.name)
		})
	}
}

func TestResolveProvider_BuiltInCatalogs(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), "", "", envKeys{perplexity: "pplx"})
	require.NoError(t, err)
	assert.Same(t, perplexity.Catalog, p.catalog)

	p, err = resolveProvider(context.Background(), "anthropic", "sk-flag", envKeys{anthropic: "sk-env"})
	require.NoError(t, err)
	assert.Same(t, anthropic.Catalog, p.catalog)

	p, err = resolveProvider(context.Background(), "gemini", "gk", envKeys{})
	require.NoError(t, err)
	assert.Same(t, gemini.Catalog, p.catalog)
}

func TestResolveProvider_ExplicitProviderMissingKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr string
	}{
		{name: "perplexity", wantErr: "PERPLEXITY_API_KEY not set"},
		{name: "anthropic", wantErr: "ANTHROPIC_API_KEY not set"},
		{name: "gemini", wantErr: "GEMINI_API_KEY not set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := resolveProvider(context.Background(), tt.name, "", envKeys{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
