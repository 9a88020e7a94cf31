package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/cascade"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ cascade.Transport = (*Client)(nil)

// Client implements [cascade.Transport] for the Google Gemini API.
type Client struct {
	client    *genai.Client
	grounding bool
}

type config struct {
	baseURL   string
	grounding bool
}

// Option configures a [Client].
type Option func(*config)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithGoogleSearch enables Google Search grounding. Grounding sources are
// returned as citations.
func WithGoogleSearch() Option {
	return func(c *config) { c.grounding = true }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{client: gc, grounding: cfg.grounding}, nil
}

// Complete sends req to GenerateContent using req.Model as the model ID.
func (c *Client) Complete(ctx context.Context, req cascade.Request) (cascade.Response, error) {
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, ConvertMessages(req.Messages), BuildConfig(req, c.grounding))
	if err != nil {
		return cascade.Response{}, fmt.Errorf("gemini: %w", ConvertError(err))
	}
	return ConvertResponse(resp), nil
}

// BuildConfig maps the request options onto a generation config.
// Exported for testing.
func BuildConfig(req cascade.Request, grounding bool) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	if grounding {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return config
}

// ConvertMessages converts cascade messages to genai contents. The
// assistant role is called "model" by the Gemini API.
// Exported for testing.
func ConvertMessages(msgs []cascade.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == cascade.RoleAssistant {
			role = "model"
		}
		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return result
}

// ConvertResponse reads the first candidate's text parts, skipping thoughts,
// and collects citation and grounding URIs in order of first appearance.
// Exported for testing.
func ConvertResponse(resp *genai.GenerateContentResponse) cascade.Response {
	var out cascade.Response
	if resp == nil {
		return out
	}
	out.Model = resp.ModelVersion
	if u := resp.UsageMetadata; u != nil {
		out.Usage = cascade.Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}
	cand := resp.Candidates[0]

	if cand.Content != nil {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			sb.WriteString(p.Text)
		}
		out.Content = sb.String()
	}

	seen := map[string]bool{}
	add := func(uri string) {
		if uri != "" && !seen[uri] {
			seen[uri] = true
			out.Citations = append(out.Citations, uri)
		}
	}
	if cand.CitationMetadata != nil {
		for _, cit := range cand.CitationMetadata.Citations {
			if cit != nil {
				add(cit.URI)
			}
		}
	}
	if cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk != nil && chunk.Web != nil {
				add(chunk.Web.URI)
			}
		}
	}
	return out
}

// ConvertError maps SDK API errors onto [cascade.StatusError]. Other errors
// are returned unchanged.
// Exported for testing.
func ConvertError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return statusError(*apiErrPtr)
	}
	return err
}

func statusError(e genai.APIError) *cascade.StatusError {
	msg := e.Message
	if e.Status != "" {
		msg = e.Status + ": " + msg
	}
	return &cascade.StatusError{StatusCode: e.Code, Message: msg}
}
