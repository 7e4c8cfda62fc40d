// Package llm abstracts the language-understanding service used by the
// assistant. Model output is a suggestion only; callers must re-validate it.
package llm

import (
	"context"
	"errors"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrTimeout marks an upstream call that exceeded its deadline. Retryable.
var ErrTimeout = errors.New("language service timed out")

// ErrUnavailable marks an upstream call that failed outright. Retryable.
var ErrUnavailable = errors.New("language service unavailable")

// Config holds provider settings shared by implementations.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for the Gemini provider.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   "gemini-2.0-flash",
		Timeout: 30 * time.Second,
	}
}
