// Package openai answers prompts with an OpenAI-compatible chat completion model.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// Client implements ports.Generator with streamed chat completions.
type Client struct {
	client      openai.Client
	model       string
	baseURL     string
	requestOpts []option.RequestOption
	logger      *slog.Logger
}

var _ ports.Generator = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithModel selects the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRequestOptions appends raw SDK request options (retries, HTTP client, headers).
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. The API key is never logged.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	c := &Client{
		model:  DefaultModel,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(c.baseURL))
	}
	reqOpts = append(reqOpts, c.requestOpts...)
	c.client = openai.NewClient(reqOpts...)
	return c, nil
}

// Generate streams a completion for the prompt and concatenates the deltas.
// HTTP 429 is reported as an error wrapping domain.ErrThrottled.
func (c *Client) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model: c.model,
	}
	if req.SessionID != "" {
		params.User = openai.String(req.SessionID)
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var sb strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 {
			sb.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("chat completion: %w: %v", domain.ErrThrottled, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	c.logger.DebugContext(ctx, "model answered", "session_id", req.SessionID, "model", c.model, "bytes", sb.Len())
	return sb.String(), nil
}
