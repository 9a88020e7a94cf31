package anthropic

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

// Client implements [cascade.Transport] for the Anthropic Messages API.
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

// New creates a new Anthropic [Client] with the given API key and options.
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

// Complete sends req to the Messages API using req.Model as the model ID.
func (c *Client) Complete(ctx context.Context, req cascade.Request) (cascade.Response, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return cascade.Response{}, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return cascade.Response{}, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return cascade.Response{}, fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cascade.Response{}, fmt.Errorf("anthropic: %w", parseHTTPError(resp))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return cascade.Response{}, fmt.Errorf("anthropic: decode response: %w", err)
	}
	return convertResponse(apiResp), nil
}

func buildRequest(req cascade.Request) apiRequest {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	msgs := make([]apiMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = apiMessage{Role: string(m.Role), Content: m.Content}
	}
	return apiRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Messages:    msgs,
		Temperature: req.Temperature,
	}
}

// convertResponse joins text blocks and collects unique citation URLs in
// order of first appearance.
func convertResponse(r apiResponse) cascade.Response {
	var sb strings.Builder
	var citations []string
	seen := map[string]bool{}
	for _, b := range r.Content {
		if b.Type != "text" {
			continue
		}
		sb.WriteString(b.Text)
		for _, cit := range b.Citations {
			if cit.URL != "" && !seen[cit.URL] {
				seen[cit.URL] = true
				citations = append(citations, cit.URL)
			}
		}
	}
	return cascade.Response{
		Content:   sb.String(),
		Citations: citations,
		Usage: cascade.Usage{
			InputTokens:  r.Usage.InputTokens,
			OutputTokens: r.Usage.OutputTokens,
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
	return &cascade.StatusError{
		StatusCode: resp.StatusCode,
		Message:    apiErr.Error.Type + ": " + apiErr.Error.Message,
	}
}
