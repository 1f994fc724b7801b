package docquiz

import (
	"context"
	"fmt"
)

// TextGenerator is the generative-model backend: a prompt in, free text out
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const systemPrompt = "You are an expert quiz question generator. You write clear, fair questions grounded in the supplied source material and you always answer with a single JSON object."

// NewTextGenerator builds the backend selected by cfg.Provider
func NewTextGenerator(ctx context.Context, cfg *Config) (TextGenerator, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
