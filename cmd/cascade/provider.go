package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/cascade"
	"github.com/fwojciec/cascade/anthropic"
	"github.com/fwojciec/cascade/gemini"
	"github.com/fwojciec/cascade/perplexity"
)

// envKeys holds the API keys read from the environment.
type envKeys struct {
	perplexity string
	anthropic  string
	gemini     string
}

// provider is a transport together with its built-in catalog.
type provider struct {
	name      string
	transport cascade.Transport
	catalog   *cascade.Catalog
}

// resolveProvider selects and constructs the provider. All env var values are
// passed in as parameters; env is only read in main().
func resolveProvider(ctx context.Context, providerFlag, apiKeyFlag string, env envKeys) (provider, error) {
	name := providerFlag

	// Auto-detect from env vars if no flag.
	if name == "" {
		var found []string
		if env.perplexity != "" {
			found = append(found, "perplexity")
		}
		if env.anthropic != "" {
			found = append(found, "anthropic")
		}
		if env.gemini != "" {
			found = append(found, "gemini")
		}
		switch len(found) {
		case 0:
			return provider{}, fmt.Errorf("no API key found: set PERPLEXITY_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY (or use -provider and -api-key flags)")
		case 1:
			name = found[0]
		default:
			return provider{}, fmt.Errorf("multiple API keys found (%s): use -provider flag to select", strings.Join(found, ", "))
		}
	}

	// Explicit flag overrides env var.
	key := apiKeyFlag
	switch name {
	case "perplexity":
		if key == "" {
			key = env.perplexity
		}
		if key == "" {
			return provider{}, fmt.Errorf("PERPLEXITY_API_KEY not set (use -api-key flag or environment variable)")
		}
		return provider{name: name, transport: perplexity.New(key), catalog: perplexity.Catalog}, nil
	case "anthropic":
		if key == "" {
			key = env.anthropic
		}
		if key == "" {
			return provider{}, fmt.Errorf("ANTHROPIC_API_KEY not set (use -api-key flag or environment variable)")
		}
		return provider{name: name, transport: anthropic.New(key), catalog: anthropic.Catalog}, nil
	case "gemini":
		if key == "" {
			key = env.gemini
		}
		if key == "" {
			return provider{}, fmt.Errorf("GEMINI_API_KEY not set (use -api-key flag or environment variable)")
		}
		client, err := gemini.New(ctx, key, gemini.WithGoogleSearch())
		if err != nil {
			return provider{}, err
		}
		return provider{name: name, transport: client, catalog: gemini.Catalog}, nil
	default:
		return provider{}, fmt.Errorf("unknown provider %q: must be \"perplexity\", \"anthropic\" or \"gemini\"", name)
	}
}
