// Package rules defines the Rule type and glob-based matching of rules to
// file paths.
//
// Rules are declared in .ailint.yml and are immutable once loaded. Matching
// uses gitignore-style glob semantics: a rule applies to a file when its
// files pattern matches and its ignore pattern (if present) does not.
package rules
