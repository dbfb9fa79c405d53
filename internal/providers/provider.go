package providers

import (
	"context"
	"fmt"
)

// Request contains one completion request to a model provider.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSONOutput asks the provider for a structured JSON object response
	// where the API supports it.
	JSONOutput bool
}

// Response contains the raw response from a model provider.
type Response struct {
	Content    string
	TokensUsed int
}

// Completer is the provider abstraction interface. Implementations classify
// failures (auth, rate limit, server, malformed request) but do not retry;
// retry policy lives with the caller.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a provider by name. baseURL overrides the provider endpoint
// and is required only for self-hosted OpenAI-compatible servers that are
// not on their default port.
func New(provider, model, baseURL string) (Completer, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model, baseURL)
	case "ollama", "lmstudio":
		return NewOllama(model, baseURL)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
