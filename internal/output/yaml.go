package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/propcheck-dev/propcheck/internal/domain/report"
)

// YAMLFormatter formats validation reports as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the reports as YAML documents, one per model.
func (f *YAMLFormatter) Format(results []*report.Result) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)

	for _, result := range results {
		if err := encoder.Encode(result); err != nil {
			return err
		}
	}

	return encoder.Close()
}
