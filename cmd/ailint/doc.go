// Ailint is a CLI that lints source files against natural-language rules
// using LLM providers.
//
// Rules pair a glob pattern with a plain-English requirement; each matching
// (file, rule) pair is judged by a model and the verdict is cached by
// content hash, so re-runs only pay for what changed.
//
// Usage:
//
//	ailint init                # write a starter .ailint.yml
//	ailint check               # lint the current directory
//	ailint check src/ --changed    # lint only files changed vs HEAD
//	ailint cache status        # inspect the result cache
//	ailint cache clear         # drop all cached results
//
// Exit codes are deterministic for CI gating: 0 clean, 1 failed error-rule
// or API failure, 2 usage error, 3 authentication error, 4 runtime error.
package main
