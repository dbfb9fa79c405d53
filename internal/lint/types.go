package lint

import (
	"github.com/dshills/ailint/internal/rules"
)

// Job is one (rule, file) unit of work. Jobs are created fresh per run and
// never persisted.
type Job struct {
	Rule       rules.Rule
	File       string
	Content    string
	FileHash   string
	PromptHash string
}

// Result is the outcome of judging one Job. The JSON field names are part of
// the persisted cache format and the JSON report output.
type Result struct {
	RuleID     string         `json:"ruleId"`
	RuleName   string         `json:"ruleName"`
	File       string         `json:"file"`
	Severity   rules.Severity `json:"severity"`
	Pass       bool           `json:"pass"`
	Message    string         `json:"message"`
	Line       *int           `json:"line,omitempty"`
	DurationMs int64          `json:"durationMs"`
	Cached     bool           `json:"cached"`
	APIError   bool           `json:"apiError,omitempty"`
}

// Summary aggregates counts over one run's Results. It is derived purely
// from the Result list.
type Summary struct {
	TotalFiles        int   `json:"totalFiles"`
	TotalRulesApplied int   `json:"totalRulesApplied"`
	Passed            int   `json:"passed"`
	Errors            int   `json:"errors"`
	Warnings          int   `json:"warnings"`
	Cached            int   `json:"cached"`
	DurationMs        int64 `json:"durationMs"`
}

// ComputeSummary calculates the summary from results. Errors and warnings
// count only failed results, split by rule severity.
func ComputeSummary(results []Result, durationMs int64) Summary {
	s := Summary{
		TotalRulesApplied: len(results),
		DurationMs:        durationMs,
	}
	files := make(map[string]struct{})
	for _, r := range results {
		files[r.File] = struct{}{}
		if r.Pass {
			s.Passed++
		} else if r.Severity == rules.SeverityError {
			s.Errors++
		} else if r.Severity == rules.SeverityWarning {
			s.Warnings++
		}
		if r.Cached {
			s.Cached++
		}
	}
	s.TotalFiles = len(files)
	return s
}

// ExitCode returns 1 if any error-severity rule failed or any result is a
// degraded API-error placeholder, else 0. An API failure is never silently
// downgraded to a clean exit.
func ExitCode(results []Result) int {
	for _, r := range results {
		if r.APIError {
			return 1
		}
		if !r.Pass && r.Severity == rules.SeverityError {
			return 1
		}
	}
	return 0
}
