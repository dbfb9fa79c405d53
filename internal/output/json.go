package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dshills/ailint/internal/lint"
)

// jsonReport is the machine-readable report document.
type jsonReport struct {
	Results []lint.Result `json:"results"`
	Summary lint.Summary  `json:"summary"`
}

// JSONReporter writes the full result list and summary as one JSON document.
type JSONReporter struct {
	W io.Writer
}

func (j *JSONReporter) Report(results []lint.Result, summary lint.Summary) {
	if results == nil {
		results = []lint.Result{}
	}
	data, err := json.MarshalIndent(jsonReport{Results: results, Summary: summary}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding report: %v\n", err)
		return
	}
	_, _ = j.W.Write(append(data, '\n'))
}
