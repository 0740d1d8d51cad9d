package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/propcheck-dev/propcheck/internal/domain/report"
)

// IssueEnv is the expression environment available to --filter expressions.
type IssueEnv struct {
	Type     string `expr:"type"`
	Feature  string `expr:"feature"`
	Table    string `expr:"table"`
	Severity string `expr:"severity"`
}

// CompileIssueFilter compiles a filter expression once at startup so an
// invalid expression fails before any validation work happens.
func CompileIssueFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(IssueEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w\nExample: type == 'NON_EVENT_STREAM_INPUT' || severity == 'warning'", err)
	}
	return program, nil
}

// FilterResult returns a copy of the result keeping only findings that match
// the compiled filter. Status and table stats are display context and stay
// untouched; filtering narrows what is shown, not what was found.
func FilterResult(result *report.Result, program *vm.Program) (*report.Result, error) {
	filtered := report.NewResult(result.ModelName)
	filtered.Status = result.Status
	filtered.TableStats = result.TableStats

	matches := func(severity string, issue report.Issue) (bool, error) {
		out, err := expr.Run(program, IssueEnv{
			Type:     string(issue.Type),
			Feature:  issue.Feature,
			Table:    issue.Table,
			Severity: severity,
		})
		if err != nil {
			return false, fmt.Errorf("filter evaluation failed: %w", err)
		}
		keep, ok := out.(bool)
		if !ok {
			return false, fmt.Errorf("filter expression did not return a boolean")
		}
		return keep, nil
	}

	for _, issue := range result.Errors {
		keep, err := matches("error", issue)
		if err != nil {
			return nil, err
		}
		if keep {
			filtered.AddError(issue)
		}
	}
	for _, issue := range result.Warnings {
		keep, err := matches("warning", issue)
		if err != nil {
			return nil, err
		}
		if keep {
			filtered.AddWarning(issue)
		}
	}
	for _, issue := range result.Suggestions {
		keep, err := matches("suggestion", issue)
		if err != nil {
			return nil, err
		}
		if keep {
			filtered.AddSuggestion(issue)
		}
	}

	return filtered, nil
}
