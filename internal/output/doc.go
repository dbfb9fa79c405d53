// Package output renders a finished lint run for humans (colored text
// grouped by file) or machines (a single JSON document). Reporters are pure
// sinks: they consume the result list and summary and return nothing.
package output
