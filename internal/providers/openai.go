package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOllamaURL = "http://localhost:11434"

// OpenAI implements the Completer interface for OpenAI's API and for any
// OpenAI-compatible server (Ollama, LM Studio) reached via a custom base URL.
type OpenAI struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(model, baseURL string) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, &authError{provider: "openai", message: "OPENAI_API_KEY environment variable is not set"}
	}
	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "openai",
	}, nil
}

// NewOllama creates a provider for Ollama or LM Studio through their
// OpenAI-compatible endpoint. No API key is required by default.
func NewOllama(model, baseURL string) (*OpenAI, error) {
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}

	// Optional key for local servers that require one (e.g., LM Studio).
	cfg := openai.DefaultConfig(os.Getenv("AILINT_OLLAMA_API_KEY"))
	cfg.BaseURL = baseURL
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "ollama",
	}, nil
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	// go-openai omits a zero temperature from the request body; the smallest
	// nonzero float32 is the library's convention for an explicit 0.
	temp := float32(req.Temperature)
	if req.Temperature == 0 {
		temp = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   maxTokens,
		Temperature: temp,
	}
	if req.JSONOutput {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Response{}, o.classify(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// classify maps go-openai errors onto the shared error taxonomy. Transport
// failures (connection refused, timeouts) pass through wrapped and stay
// retryable.
func (o *OpenAI) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &rateLimitError{}
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return &authError{provider: o.name, message: apiErr.Message}
		case apiErr.HTTPStatusCode >= 500:
			return &serverError{statusCode: apiErr.HTTPStatusCode, body: apiErr.Message}
		case apiErr.HTTPStatusCode >= 400:
			return &badRequestError{statusCode: apiErr.HTTPStatusCode, body: apiErr.Message}
		}
	}
	return fmt.Errorf("sending request: %w", err)
}
