package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/cascade"
)

// Interface compliance check.
var _ cascade.Transport = (*Client)(nil)

// Client implements [cascade.Transport] for the Perplexity API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Perplexity [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends req to the chat-completions endpoint using req.Model as
// the model ID.
func (c *Client) Complete(ctx context.Context, req cascade.Request) (cascade.Response, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return cascade.Response{}, fmt.Errorf("perplexity: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return cascade.Response{}, fmt.Errorf("perplexity: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return cascade.Response{}, fmt.Errorf("perplexity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cascade.Response{}, fmt.Errorf("perplexity: %w", parseHTTPError(resp))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return cascade.Response{}, fmt.Errorf("perplexity: decode response: %w", err)
	}
	return convertResponse(apiResp), nil
}

func buildRequest(req cascade.Request) apiRequest {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	msgs := make([]apiMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, apiMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, apiMessage{Role: string(m.Role), Content: m.Content})
	}
	return apiRequest{
		Model:               req.Model,
		Messages:            msgs,
		MaxTokens:           maxTokens,
		Temperature:         req.Temperature,
		SearchRecencyFilter: req.SearchRecency,
	}
}

// convertResponse takes the first choice. Citations come from the
// top-level citations list, or from search_results on responses that
// omit it.
func convertResponse(r apiResponse) cascade.Response {
	var content string
	if len(r.Choices) > 0 {
		content = r.Choices[0].Message.Content
	}
	citations := r.Citations
	if len(citations) == 0 {
		for _, sr := range r.SearchResults {
			if sr.URL != "" {
				citations = append(citations, sr.URL)
			}
		}
	}
	return cascade.Response{
		Content:   content,
		Citations: citations,
		Usage: cascade.Usage{
			InputTokens:  r.Usage.PromptTokens,
			OutputTokens: r.Usage.CompletionTokens,
		},
		Model: r.Model,
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &cascade.StatusError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read body: %v", err),
		}
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return &cascade.StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	msg := apiErr.Error.Message
	if apiErr.Error.Type != "" {
		msg = apiErr.Error.Type + ": " + msg
	}
	return &cascade.StatusError{StatusCode: resp.StatusCode, Message: msg}
}
