package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Ollama completes prompts against a local Ollama server.
type Ollama struct {
	model       llms.Model
	temperature float64
}

func NewOllama(serverURL, model string, temperature float64) (*Ollama, error) {
	if model == "" {
		model = "llama3"
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}

	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &Ollama{model: m, temperature: temperature}, nil
}

func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, o.model, prompt,
		llms.WithTemperature(o.temperature))
	if err != nil {
		return "", fmt.Errorf("ollama completion failed: %w", err)
	}
	return out, nil
}
