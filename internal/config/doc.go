// Package config loads and validates the .ailint.yml configuration file.
//
// Effective configuration is built by layering: compiled defaults, then the
// YAML file, then AILINT_* environment variables, then CLI flag overrides
// applied by the caller. Validation happens once at load time so the engine
// can trust rule ids are unique, severities are legal, and the concurrency
// bound is within 1..20.
package config
