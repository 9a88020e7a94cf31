// Package anthropic implements [cascade.Transport] for the Anthropic
// Messages API.
//
// Requests are sent without streaming; the text blocks of the reply are
// joined into [cascade.Response.Content]. Non-200 replies become
// [cascade.StatusError] values so the cascade can classify them.
package anthropic

import "github.com/fwojciec/cascade"

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultMaxTokens = 8192
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"
)

// Catalog is the built-in cascade over Anthropic models, strongest first.
var Catalog = cascade.MustCatalog(
	cascade.Backend{
		ID:          "claude-sonnet-4-20250514",
		DisplayName: "Claude Sonnet 4",
		Description: "Strong reasoning and long-form writing.",
		Quota:       cascade.QuotaMedium,
		Quality:     cascade.QualityHighest,
		Priority:    1,
	},
	cascade.Backend{
		ID:          "claude-3-5-haiku-20241022",
		DisplayName: "Claude 3.5 Haiku",
		Description: "Fast, inexpensive fallback.",
		Quota:       cascade.QuotaHigh,
		Quality:     cascade.QualityHigh,
		Priority:    2,
	},
)

// apiRequest is the JSON body sent to the Anthropic Messages API.
type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	System      string       `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiResponse is the JSON body of a successful non-streaming reply.
type apiResponse struct {
	Model   string            `json:"model"`
	Content []apiContentBlock `json:"content"`
	Usage   apiUsage          `json:"usage"`
}

type apiContentBlock struct {
	Type      string        `json:"type"`
	Text      string        `json:"text,omitempty"`
	Citations []apiCitation `json:"citations,omitempty"`
}

// apiCitation is a web search citation attached to a text block.
type apiCitation struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type apiErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// apiErrorResponse is the JSON body returned on non-200 HTTP responses.
type apiErrorResponse struct {
	Type  string         `json:"type"`
	Error apiErrorDetail `json:"error"`
}
