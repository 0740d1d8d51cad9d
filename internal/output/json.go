package output

import (
	"encoding/json"
	"io"

	"github.com/propcheck-dev/propcheck/internal/domain/report"
)

// JSONFormatter formats validation reports as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the reports as JSON. A single report is written as an
// object, multiple reports as an array.
func (f *JSONFormatter) Format(results []*report.Result) error {
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}

	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}

	if err != nil {
		return err
	}

	_, err = f.writer.Write(data)
	if err != nil {
		return err
	}

	// Add newline for better terminal output
	_, err = f.writer.Write([]byte("\n"))
	return err
}
