package llm

import (
	"context"
	"fmt"
)

// Client produces one raw text completion per prompt. Implementations carry
// their own transport; callers bound the call with the context.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a completion provider.
type Config struct {
	Provider string // "googleai" or "ollama"

	// Google AI
	APIKey string
	Model  string

	// Ollama
	OllamaURL   string
	OllamaModel string

	Temperature float64
}

// New builds a client for the configured provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case "googleai", "":
		return NewGoogleAI(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	case "ollama":
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
