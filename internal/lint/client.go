package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/ailint/internal/providers"
	"github.com/dshills/ailint/internal/redact"
)

const (
	maxAttempts    = 3
	judgeMaxTokens = 1024
	defaultBackoff = time.Second
)

// judgment is the JSON structure the model must return.
type judgment struct {
	Pass    bool   `json:"pass"`
	Message string `json:"message"`
	Line    *int   `json:"line"`
}

// CompleterFunc constructs a provider client. Tests inject fakes here.
type CompleterFunc func(provider, model, baseURL string) (providers.Completer, error)

// ClientOptions configures a Client.
type ClientOptions struct {
	Provider      string
	ProviderURL   string
	DefaultModel  string
	Catalog       providers.Catalog
	RedactSecrets bool

	// Backoff overrides the base retry delay; zero means one second.
	Backoff time.Duration
	// NewCompleter overrides provider construction; nil means providers.New.
	NewCompleter CompleterFunc
}

// Client converts Jobs into Results using a model provider. It owns model
// resolution, prompt construction, the retry budget, and the conversion of
// exhausted failures into degraded api-error Results. Authentication
// failures are returned as errors so the caller aborts the run.
type Client struct {
	opts ClientOptions

	mu         sync.Mutex
	completers map[string]providers.Completer
}

// NewClient creates a judge client.
func NewClient(opts ClientOptions) *Client {
	if opts.Backoff == 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.NewCompleter == nil {
		opts.NewCompleter = providers.New
	}
	return &Client{
		opts:       opts,
		completers: make(map[string]providers.Completer),
	}
}

// Lint obtains exactly one compliance judgment for the job. The returned
// error is non-nil only for failures that doom the whole run (invalid
// credentials); every per-job failure becomes a Result.
func (c *Client) Lint(ctx context.Context, job Job) (Result, error) {
	start := time.Now()

	model := job.Rule.Model
	if model == "" {
		model = c.opts.DefaultModel
	}
	resolved := c.opts.Catalog.Resolve(c.opts.Provider, model)

	completer, err := c.completer(resolved)
	if err != nil {
		// Constructor failures are config or credential problems that will
		// recur on every job.
		return Result{}, err
	}

	content := job.Content
	if c.opts.RedactSecrets {
		content = redact.Secrets(content)
	}

	req := providers.Request{
		System:      SystemPrompt(),
		User:        BuildUserPrompt(job.Rule.DisplayName(), job.Rule.Prompt, job.File, content),
		MaxTokens:   judgeMaxTokens,
		Temperature: 0,
		JSONOutput:  true,
	}

	var j judgment
	err = providers.RetryWithBackoff(ctx, maxAttempts, c.opts.Backoff, func() error {
		resp, err := completer.Complete(ctx, req)
		if err != nil {
			return err
		}
		parsed, err := parseJudgment(resp.Content)
		if err != nil {
			return err
		}
		j = parsed
		return nil
	})

	res := Result{
		RuleID:     job.Rule.ID,
		RuleName:   job.Rule.DisplayName(),
		File:       job.File,
		Severity:   job.Rule.Severity,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if err != nil {
		if providers.IsAuthError(err) {
			return Result{}, err
		}
		res.Pass = false
		res.Message = fmt.Sprintf("API error: %v", err)
		res.APIError = true
		return res, nil
	}

	res.Pass = j.Pass
	res.Message = j.Message
	res.Line = j.Line
	return res, nil
}

// completer returns the cached provider client for a resolved model,
// constructing it on first use. Jobs for different rules may run
// concurrently, hence the lock.
func (c *Client) completer(model string) (providers.Completer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if comp, ok := c.completers[model]; ok {
		return comp, nil
	}
	comp, err := c.opts.NewCompleter(c.opts.Provider, model, c.opts.ProviderURL)
	if err != nil {
		return nil, err
	}
	c.completers[model] = comp
	return comp, nil
}

// parseJudgment decodes the model response. A response with no usable output
// or a blank message is an empty-response failure, which the retry policy
// treats as transient.
func parseJudgment(content string) (judgment, error) {
	content = stripCodeFences(content)
	var j judgment
	if err := json.Unmarshal([]byte(content), &j); err != nil {
		return judgment{}, fmt.Errorf("%w: unparseable judgment: %v", providers.ErrEmptyResponse, err)
	}
	if strings.TrimSpace(j.Message) == "" {
		return judgment{}, fmt.Errorf("%w: blank message", providers.ErrEmptyResponse)
	}
	return j, nil
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}
