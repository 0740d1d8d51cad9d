// Package report provides the domain model for validation results.
package report

import (
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// Result is the complete outcome of validating one propensity model. It is
// built incrementally during a single traversal pass and contains everything
// the run found, so one report surfaces every problem at once.
//
// Result is deliberately free of run identifiers and timestamps: two runs
// against unchanged inputs and an unchanged warehouse serialize to identical
// bytes.
type Result struct {
	ModelName   string                `json:"model_name" yaml:"model_name"`
	Status      values.Status         `json:"validation_status" yaml:"validation_status"`
	Errors      []Issue               `json:"errors" yaml:"errors"`
	Warnings    []Issue               `json:"warnings" yaml:"warnings"`
	Suggestions []Issue               `json:"suggestions" yaml:"suggestions"`
	TableStats  map[string]TableStats `json:"table_stats" yaml:"table_stats"`
}

// Issue is a single finding: an error, warning, or suggestion.
type Issue struct {
	Type        values.IssueType `json:"type" yaml:"type"`
	Feature     string           `json:"feature,omitempty" yaml:"feature,omitempty"`
	Table       string           `json:"table,omitempty" yaml:"table,omitempty"`
	Message     string           `json:"message" yaml:"message"`
	Remediation string           `json:"remediation" yaml:"remediation"`
	Context     string           `json:"context,omitempty" yaml:"context,omitempty"`
}

// TableStats holds the verification query result for one warehouse table.
// An entry doubles as the de-duplication cache: once a table has stats, later
// references never re-query the warehouse.
type TableStats struct {
	MinDate          string `json:"min_date" yaml:"min_date"`
	MaxDate          string `json:"max_date" yaml:"max_date"`
	DateRangeDays    int    `json:"date_range_days" yaml:"date_range_days"`
	TotalRows        int64  `json:"total_rows" yaml:"total_rows"`
	OccurredAtColumn string `json:"occurred_at_column" yaml:"occurred_at_column"`
}

// Summary provides aggregate counts for human-readable output.
type Summary struct {
	Errors      int `json:"errors" yaml:"errors"`
	Warnings    int `json:"warnings" yaml:"warnings"`
	Suggestions int `json:"suggestions" yaml:"suggestions"`
	Tables      int `json:"tables" yaml:"tables"`
}

// NewResult creates an empty result for a model. Collections start non-nil so
// an all-clear report serializes with empty lists rather than nulls.
func NewResult(modelName string) *Result {
	return &Result{
		ModelName:   modelName,
		Status:      values.StatusPassed,
		Errors:      []Issue{},
		Warnings:    []Issue{},
		Suggestions: []Issue{},
		TableStats:  map[string]TableStats{},
	}
}

// AddError records an error finding.
func (r *Result) AddError(issue Issue) {
	r.Errors = append(r.Errors, issue)
}

// AddWarning records a warning finding.
func (r *Result) AddWarning(issue Issue) {
	r.Warnings = append(r.Warnings, issue)
}

// AddSuggestion records a suggestion finding.
func (r *Result) AddSuggestion(issue Issue) {
	r.Suggestions = append(r.Suggestions, issue)
}

// HasTableStats reports whether a table already has a recorded verification.
func (r *Result) HasTableStats(table string) bool {
	_, ok := r.TableStats[table]
	return ok
}

// RecordTableStats stores a table's verification stats. The first recording
// wins; the cache invariant forbids re-verification of the same table.
func (r *Result) RecordTableStats(table string, stats TableStats) {
	if _, exists := r.TableStats[table]; exists {
		return
	}
	r.TableStats[table] = stats
}

// Summarize returns aggregate counts over the recorded findings.
func (r *Result) Summarize() Summary {
	return Summary{
		Errors:      len(r.Errors),
		Warnings:    len(r.Warnings),
		Suggestions: len(r.Suggestions),
		Tables:      len(r.TableStats),
	}
}
