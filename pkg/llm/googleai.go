package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GoogleAI completes prompts against the Gemini API.
type GoogleAI struct {
	model       llms.Model
	temperature float64
}

func NewGoogleAI(ctx context.Context, apiKey, model string, temperature float64) (*GoogleAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google ai api key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	m, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google ai client: %w", err)
	}

	return &GoogleAI{model: m, temperature: temperature}, nil
}

func (g *GoogleAI) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.temperature))
	if err != nil {
		return "", fmt.Errorf("google ai completion failed: %w", err)
	}
	return out, nil
}
