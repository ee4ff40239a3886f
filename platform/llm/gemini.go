// Package llm wraps the Gemini SDK behind the two narrow operations the
// services need: embedding text and generating answers.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Client struct {
	client     *genai.Client
	embedModel *genai.EmbeddingModel
	genModel   *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey, embeddingModel, generativeModel string, maxTokens int32) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	gen := client.GenerativeModel(generativeModel)
	gen.SetTemperature(0.2)
	if maxTokens > 0 {
		gen.SetMaxOutputTokens(maxTokens)
	}

	return &Client{
		client:     client,
		embedModel: client.EmbeddingModel(embeddingModel),
		genModel:   gen,
	}, nil
}

// Embed returns the embedding vector for text. Deterministic for identical
// input within a model version.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.embedModel.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embedding.Values, nil
}

// Generate runs the model on prompt and returns the concatenated text
// parts of the first candidate set.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text in generation response")
	}
	return strings.Join(parts, "\n"), nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
