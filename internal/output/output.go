// Package output renders validation reports as tables, JSON, or YAML.
package output

import (
	"fmt"
	"io"

	"github.com/propcheck-dev/propcheck/internal/domain/report"
)

// Formatter renders one or more model validation reports.
type Formatter interface {
	Format(results []*report.Result) error
}

// NewFormatter creates a formatter by name.
func NewFormatter(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected table, json, or yaml)", format)
	}
}
