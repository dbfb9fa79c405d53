// Package discover resolves CLI path arguments to concrete file lists,
// either by walking directories (honoring .gitignore and skipping generated
// trees) or by asking git which files changed.
package discover
