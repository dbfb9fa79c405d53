package output

import (
	"fmt"
	"io"

	"github.com/dshills/ailint/internal/lint"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a reporter for the named format writing to w.
func New(format string, w io.Writer) (lint.Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{W: w}, nil
	case FormatJSON:
		return &JSONReporter{W: w}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
