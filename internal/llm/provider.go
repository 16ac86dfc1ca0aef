package llm

import (
	"context"
	"fmt"
)

// ProviderName identifies a supported LLM provider.
type ProviderName string

const (
	ProviderOpenRouter ProviderName = "openrouter"
	ProviderOpenAI     ProviderName = "openai"
	ProviderAnthropic  ProviderName = "anthropic"
	ProviderOllama     ProviderName = "ollama"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint for OpenRouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// CompleteOptions controls per-request LLM parameters.
// A nil value uses provider-specific defaults.
type CompleteOptions struct {
	Temperature *float32
	MaxTokens   int
}

// WithTemperature returns options with only the temperature set.
func WithTemperature(t float32) *CompleteOptions {
	return &CompleteOptions{Temperature: &t}
}

// ProviderConfig holds the configuration needed to construct a Provider.
type ProviderConfig struct {
	Name       ProviderName
	APIKey     string
	Model      string
	OllamaHost string
	// BaseURL overrides the provider endpoint. Empty means the provider default.
	BaseURL string
}

// Provider abstracts an LLM completion backend.
type Provider interface {
	Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error)
}

// NewProvider creates a Provider for the given configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderOpenRouter:
		base := cfg.BaseURL
		if base == "" {
			base = OpenRouterBaseURL
		}
		return newOpenAI(cfg.APIKey, cfg.Model, base), nil
	case ProviderOpenAI:
		return newOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return newAnthropic(cfg.APIKey, cfg.Model), nil
	case ProviderOllama:
		return newOllama(cfg.OllamaHost, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Name)
	}
}
