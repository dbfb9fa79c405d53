package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.body)
}

type badRequestError struct {
	statusCode int
	body       string
}

func (e *badRequestError) Error() string {
	return fmt.Sprintf("request rejected (status %d): %s", e.statusCode, e.body)
}

type authError struct {
	provider string
	message  string
}

func (e *authError) Error() string {
	return fmt.Sprintf("authentication error (%s): %s", e.provider, e.message)
}

// ErrEmptyResponse marks a completion that returned no usable output. It is
// retried like a transient failure.
var ErrEmptyResponse = errors.New("empty response from model")

// NewAuthError builds an authentication error for credential problems
// detected outside the provider transports.
func NewAuthError(provider, message string) error {
	return &authError{provider: provider, message: message}
}

// IsAuthError checks if an error is an authentication error. Auth errors are
// never retried: they will recur on every subsequent call, so the whole run
// should abort.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// IsRetryable reports whether an error should consume another attempt.
// Rate limits, server errors, network failures, timeouts, empty responses,
// and anything unclassified are retryable. Auth errors and malformed-request
// rejections are not.
func IsRetryable(err error) bool {
	if err == nil || IsAuthError(err) {
		return false
	}
	var bre *badRequestError
	return !errors.As(err, &bre)
}

// RetryWithBackoff runs fn up to maxAttempts total attempts, sleeping
// base<<attempt between attempts (1s then 2s with a 1s base). It returns
// nil on the first success, the error immediately for non-retryable
// failures, and the last error once the attempt budget is exhausted.
func RetryWithBackoff(ctx context.Context, maxAttempts int, base time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt < maxAttempts-1 {
			backoff := base << uint(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
