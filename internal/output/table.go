package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/propcheck-dev/propcheck/internal/domain/report"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// TableFormatter formats validation reports as a human-readable table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the validation reports as a table.
func (f *TableFormatter) Format(results []*report.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(f.writer, "No models validated.")
		return nil
	}

	for _, result := range results {
		f.formatResult(result)
	}

	f.formatSummary(results)
	return nil
}

// formatResult formats a single model's report.
func (f *TableFormatter) formatResult(result *report.Result) {
	summary := result.Summarize()

	fmt.Fprintf(f.writer, "%s Model: %s\n", f.getStatusSymbol(result.Status), result.ModelName)
	fmt.Fprintf(f.writer, "  Status: %s\n", result.Status)
	fmt.Fprintf(f.writer, "  Findings: %d errors, %d warnings, %d suggestions, %d tables verified\n",
		summary.Errors, summary.Warnings, summary.Suggestions, summary.Tables)
	fmt.Fprintln(f.writer, strings.Repeat("─", 80))

	f.formatIssues("Errors", result.Errors)
	f.formatIssues("Warnings", result.Warnings)
	f.formatIssues("Suggestions", result.Suggestions)

	if len(result.TableStats) > 0 {
		fmt.Fprintln(f.writer, "  Table stats:")

		// Map iteration order is random; sort for stable output.
		names := make([]string, 0, len(result.TableStats))
		for name := range result.TableStats {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			stats := result.TableStats[name]
			fmt.Fprintf(f.writer, "    %s: %d days (%s to %s), %d rows\n",
				name, stats.DateRangeDays, stats.MinDate, stats.MaxDate, stats.TotalRows)
		}
	}

	fmt.Fprintln(f.writer)
}

// formatIssues formats one severity section, skipping it when empty.
func (f *TableFormatter) formatIssues(heading string, issues []report.Issue) {
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(f.writer, "  %s:\n", heading)
	for i, issue := range issues {
		fmt.Fprintf(f.writer, "    %d. [%s] %s\n", i+1, issue.Type, issue.Message)
		if issue.Feature != "" {
			fmt.Fprintf(f.writer, "       Feature: %s\n", issue.Feature)
		}
		if issue.Table != "" {
			fmt.Fprintf(f.writer, "       Table: %s\n", issue.Table)
		}
		if issue.Context != "" {
			fmt.Fprintf(f.writer, "       Context: %s\n", issue.Context)
		}
		fmt.Fprintf(f.writer, "       Remediation: %s\n", issue.Remediation)
	}
}

// formatSummary formats the cross-model summary.
func (f *TableFormatter) formatSummary(results []*report.Result) {
	var passed, warned, failed int
	for _, result := range results {
		switch result.Status {
		case values.StatusPassed:
			passed++
		case values.StatusWarnings:
			warned++
		case values.StatusFailed:
			failed++
		}
	}

	fmt.Fprintln(f.writer, "Summary:")
	fmt.Fprintln(f.writer, strings.Repeat("─", 80))
	fmt.Fprintf(f.writer, "Models:       %d total\n", len(results))
	fmt.Fprintf(f.writer, "  ✓ Passed:   %d\n", passed)
	fmt.Fprintf(f.writer, "  ⚠ Warnings: %d\n", warned)
	fmt.Fprintf(f.writer, "  ✗ Failed:   %d\n", failed)
	fmt.Fprintln(f.writer, strings.Repeat("─", 80))
}

// getStatusSymbol returns a symbol for the given status.
func (f *TableFormatter) getStatusSymbol(status values.Status) string {
	switch status {
	case values.StatusPassed:
		return "✓"
	case values.StatusWarnings:
		return "⚠"
	case values.StatusFailed:
		return "✗"
	default:
		return "?"
	}
}
