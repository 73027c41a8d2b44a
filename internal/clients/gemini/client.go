// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/bobmcallan/papergate/internal/common"
	"github.com/bobmcallan/papergate/internal/interfaces"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the CompletionClient interface on the Gemini API
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Complete sends a single-turn prompt and returns the model's text.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements CompletionClient
var _ interfaces.CompletionClient = (*Client)(nil)
