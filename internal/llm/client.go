// Package llm provides the generation-backend client and the credential/model
// fallback machinery shared by every stage function.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is a generation client bound to a single (credential, model) pair.
type Client interface {
	// GenerateText generates free-form text for the prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateJSON generates text constrained to the application/json MIME type.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// ClientFactory constructs a Client bound to the given credential and model.
// The Fallback executor calls it once per (credential, model) attempt.
type ClientFactory func(ctx context.Context, apiKey, model string) (Client, error)

// NewGeminiClient creates a Gemini client bound to one API key and model name.
func NewGeminiClient(ctx context.Context, apiKey, model string) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// GenerateText generates free-form text content.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON generates content with the JSON response MIME type and strips
// any markdown fences the model wrapped around it anyway.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return CleanJSONBlock(text), nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts the text parts of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
