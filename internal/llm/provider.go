// Package llm provides a pluggable interface for inference providers.
package llm

import (
	"context"
	"fmt"

	"github.com/sabq4org/consensus/internal/config"
)

// CompletionOptions contains options for completion requests.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	Model       string
}

// DefaultCompletionOptions returns sensible defaults. Temperature stays at
// zero: consensus over structured output needs determinism, not variety.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{
		MaxTokens:   2048,
		Temperature: 0.0,
	}
}

// Provider is the uniform adapter over one inference backend. Adapters hide
// transport details and perform no retries; transport and timeout problems
// surface as returned errors only.
type Provider interface {
	// CompleteWithSystem generates a completion for user with a system prompt.
	CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error)

	// Name returns the provider name.
	Name() string
}

// NewProvider creates a provider adapter for one configured backend.
func NewProvider(name string, cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Backend {
	case "openai":
		return NewOpenAIProvider(name, cfg)
	case "anthropic":
		return NewAnthropicProvider(name, cfg)
	case "gemini":
		return NewGeminiProvider(name, cfg)
	case "ollama":
		return NewOllamaProvider(name, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}
