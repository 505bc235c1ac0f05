// Package llm wraps Genkit text generation behind a small completion
// client. The chat layer depends on the Completer seam it defines for
// itself; this package supplies the production implementation.
package llm

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Client sends single-prompt completions to a configured model.
type Client struct {
	g           *genkit.Genkit
	modelName   string
	temperature float32
	maxTokens   int
}

// NewClient creates a completion client. modelName must be
// provider-qualified (e.g. "openai/gpt-4o-mini").
func NewClient(g *genkit.Genkit, modelName string, temperature float32, maxTokens int) *Client {
	return &Client{
		g:           g,
		modelName:   modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Complete sends the prompt to the model and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, c.g,
		ai.WithModelName(c.modelName),
		ai.WithPrompt(prompt),
		ai.WithConfig(map[string]any{
			"temperature":     c.temperature,
			"maxOutputTokens": c.maxTokens,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("generating completion with %s: %w", c.modelName, err)
	}
	return resp.Text(), nil
}
