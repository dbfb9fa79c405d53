// Package providers implements the Completer interface for each supported
// model provider.
//
// Supported providers: Anthropic (Claude) over its native HTTP API, OpenAI,
// and Ollama / LM Studio through the OpenAI-compatible endpoint (both via
// the go-openai client).
//
// Providers classify failures into a shared taxonomy but do not retry;
// retry policy belongs to the caller so that response-level failures (an
// empty or unusable judgment) share the same attempt budget as transport
// failures. [RetryWithBackoff] implements that policy: transient failures
// (rate limits, 5xx, network errors, timeouts, empty responses) are retried
// with exponential backoff, malformed-request rejections get a single
// attempt, and authentication errors surface immediately. [IsAuthError]
// identifies auth failures so the whole run can abort rather than failing
// job by job.
//
// Logical model names from configuration resolve to provider identifiers
// through a [Catalog] value.
package providers
