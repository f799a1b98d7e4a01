// Package llm adapts an OpenAI-compatible chat completion endpoint
// (Gemini's by default) to fortune.TextGenerator.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/PratikDhanave/fortune-service/internal/fortune"
)

// Client implements fortune.TextGenerator.
type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewClient returns a chat-completion client for an OpenAI-compatible endpoint.
// A nil httpClient uses the library default.
func NewClient(httpClient *http.Client, apiKey, baseURL, model string, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", translateError(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.DebugContext(ctx, "generation completed",
		"model", c.model,
		"finish_reason", resp.Choices[0].FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
	)
	return text, nil
}

// translateError tags provider status codes with the fortune sentinels.
func translateError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", fortune.ErrRateLimited, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", fortune.ErrProviderAuth, err)
	default:
		return fmt.Errorf("chat completion: %w", err)
	}
}
