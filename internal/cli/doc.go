// Package cli implements the ailint command tree: check (the lint run),
// cache status/clear, rules list, models list, init, and version. Commands
// translate engine outcomes into deterministic exit codes: 0 clean, 1 rule
// errors or API failures, 2 usage/config errors, 3 authentication errors,
// 4 other runtime errors.
package cli
