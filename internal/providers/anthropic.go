package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
)

// Anthropic implements the Completer interface for Anthropic's API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropic creates a new Anthropic provider. A missing API key is an
// authentication error so the caller fails fast instead of burning retries.
func NewAnthropic(model string) (*Anthropic, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, &authError{provider: "anthropic", message: "ANTHROPIC_API_KEY environment variable is not set"}
	}
	baseURL := os.Getenv("AILINT_ANTHROPIC_BASE_URL")
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}
	return &Anthropic{
		apiKey:  key,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Complete(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.User},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode == 429:
		return Response{}, &rateLimitError{}
	case httpResp.StatusCode == 401 || httpResp.StatusCode == 403:
		return Response{}, &authError{provider: "anthropic", message: string(respBody)}
	case httpResp.StatusCode >= 500:
		return Response{}, &serverError{statusCode: httpResp.StatusCode, body: string(respBody)}
	case httpResp.StatusCode != 200:
		return Response{}, &badRequestError{statusCode: httpResp.StatusCode, body: string(respBody)}
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Response{}, fmt.Errorf("parsing response: %w", err)
	}

	var content string
	for _, block := range result.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if strings.TrimSpace(content) == "" {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Content:    content,
		TokensUsed: result.Usage.InputTokens + result.Usage.OutputTokens,
	}, nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
	Usage   anthropicUsage   `json:"usage"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
