package rules

import (
	ignore "github.com/sabhiram/go-gitignore"
)

// Severity classifies a rule's failures. Errors force a non-zero exit;
// warnings are reported but do not fail the run on their own.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule is a single natural-language lint check declared in configuration.
// The ID is stable and participates in cache keys, so renaming it
// invalidates every cached result for the rule.
type Rule struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Severity Severity `yaml:"severity" json:"severity" validate:"required,oneof=error warning"`
	Files    string   `yaml:"files" json:"files" validate:"required"`
	Ignore   string   `yaml:"ignore,omitempty" json:"ignore,omitempty"`
	Prompt   string   `yaml:"prompt" json:"prompt" validate:"required"`
	Model    string   `yaml:"model,omitempty" json:"model,omitempty"`
}

// DisplayName returns the human-readable rule name, falling back to the ID.
func (r Rule) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// compiledRule pairs a Rule with its compiled glob matchers.
type compiledRule struct {
	rule    Rule
	files   *ignore.GitIgnore
	exclude *ignore.GitIgnore
}

// Matcher answers which rules apply to a given file path. Globs use
// gitignore pattern syntax, so "*.ts" matches at any depth and
// "src/**/*.go" is anchored.
type Matcher struct {
	compiled []compiledRule
}

// NewMatcher compiles the glob patterns of every rule.
func NewMatcher(rs []Rule) *Matcher {
	m := &Matcher{compiled: make([]compiledRule, 0, len(rs))}
	for _, r := range rs {
		cr := compiledRule{
			rule:  r,
			files: ignore.CompileIgnoreLines(r.Files),
		}
		if r.Ignore != "" {
			cr.exclude = ignore.CompileIgnoreLines(r.Ignore)
		}
		m.compiled = append(m.compiled, cr)
	}
	return m
}

// Match returns every rule whose files glob matches path and whose
// exclusion glob, if any, does not. Rules keep their configuration order.
func (m *Matcher) Match(path string) []Rule {
	var matched []Rule
	for _, cr := range m.compiled {
		if !cr.files.MatchesPath(path) {
			continue
		}
		if cr.exclude != nil && cr.exclude.MatchesPath(path) {
			continue
		}
		matched = append(matched, cr.rule)
	}
	return matched
}

// Rules returns the rules the matcher was built from, in order.
func (m *Matcher) Rules() []Rule {
	rs := make([]Rule, 0, len(m.compiled))
	for _, cr := range m.compiled {
		rs = append(rs, cr.rule)
	}
	return rs
}
