// Package perplexity implements [cascade.Transport] for the Perplexity
// chat-completions API.
//
// Perplexity's Sonar models answer with live web search, so replies carry
// citation URLs, surfaced as [cascade.Response.Citations].
package perplexity

import "github.com/fwojciec/cascade"

const (
	defaultBaseURL   = "https://api.perplexity.ai"
	defaultMaxTokens = 2000
	completionsPath  = "/chat/completions"
)

// Catalog is the built-in cascade over Sonar models: the pro model first,
// the base model as the high-quota fallback, the reasoning model last.
var Catalog = cascade.MustCatalog(
	cascade.Backend{
		ID:          "sonar-pro",
		DisplayName: "Sonar Pro",
		Description: "In-depth web research with the best answer quality.",
		Quota:       cascade.QuotaMedium,
		Quality:     cascade.QualityHighest,
		Priority:    1,
	},
	cascade.Backend{
		ID:          "sonar",
		DisplayName: "Sonar",
		Description: "Fast real-time web search.",
		Quota:       cascade.QuotaHigh,
		Quality:     cascade.QualityStandard,
		Priority:    2,
	},
	cascade.Backend{
		ID:          "sonar-reasoning",
		DisplayName: "Sonar Reasoning",
		Description: "Multi-step analysis, slower and scarcer.",
		Quota:       cascade.QuotaLow,
		Quality:     cascade.QualityHigh,
		Priority:    3,
	},
)

// apiRequest is the JSON body sent to the chat-completions endpoint.
type apiRequest struct {
	Model               string       `json:"model"`
	Messages            []apiMessage `json:"messages"`
	MaxTokens           int          `json:"max_tokens"`
	Temperature         *float64     `json:"temperature,omitempty"`
	SearchRecencyFilter string       `json:"search_recency_filter,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Model         string            `json:"model"`
	Choices       []apiChoice       `json:"choices"`
	Citations     []string          `json:"citations"`
	SearchResults []apiSearchResult `json:"search_results"`
	Usage         apiUsage          `json:"usage"`
}

type apiChoice struct {
	Message apiMessage `json:"message"`
}

type apiSearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
