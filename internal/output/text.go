package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/ailint/internal/lint"
	"github.com/dshills/ailint/internal/rules"
)

var (
	passColor = color.New(color.FgGreen).SprintFunc()
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	dimColor  = color.New(color.FgHiBlack).SprintFunc()
)

// TextReporter writes a human-readable report grouped by file.
type TextReporter struct {
	W io.Writer
}

func (t *TextReporter) Report(results []lint.Result, summary lint.Summary) {
	ew := &errWriter{w: t.W}

	byFile := make(map[string][]lint.Result)
	var files []string
	for _, r := range results {
		if _, ok := byFile[r.File]; !ok {
			files = append(files, r.File)
		}
		byFile[r.File] = append(byFile[r.File], r)
	}
	sort.Strings(files)

	for _, file := range files {
		ew.printf("%s\n", file)
		for _, r := range byFile[file] {
			ew.printf("  %s %s", marker(r), r.RuleName)
			if r.Cached {
				ew.printf(" %s", dimColor("(cached)"))
			}
			ew.printf("\n")
			if !r.Pass {
				msg := r.Message
				if r.Line != nil {
					msg = fmt.Sprintf("%s (line %d)", msg, *r.Line)
				}
				for _, line := range wrapText(msg, 72) {
					ew.printf("      %s\n", line)
				}
			}
		}
		ew.printf("\n")
	}

	ew.printf("%s\n", strings.Repeat("─", 60))
	ew.printf("%d checks across %d files: %d passed, %d errors, %d warnings",
		summary.TotalRulesApplied, summary.TotalFiles,
		summary.Passed, summary.Errors, summary.Warnings)
	if summary.Cached > 0 {
		ew.printf(" (%d cached)", summary.Cached)
	}
	ew.printf("\nCompleted in %dms\n", summary.DurationMs)
}

func marker(r lint.Result) string {
	switch {
	case r.APIError:
		return errColor("[api error]")
	case r.Pass:
		return passColor("[pass]")
	case r.Severity == rules.SeverityError:
		return errColor("[error]")
	case r.Severity == rules.SeverityWarning:
		return warnColor("[warn]")
	default:
		return "[?]"
	}
}

// errWriter wraps an io.Writer and swallows writes after the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
