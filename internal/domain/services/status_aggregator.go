package services

import (
	"github.com/propcheck-dev/propcheck/internal/domain/report"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// StatusAggregator determines the final status of a validation run.
type StatusAggregator struct{}

// NewStatusAggregator creates a new status aggregator service.
func NewStatusAggregator() *StatusAggregator {
	return &StatusAggregator{}
}

// ComputeStatus derives overall status from the recorded findings.
//
// Business rule: failure precedence with no partial credit.
// - Any error → StatusFailed
// - Otherwise any warning → StatusWarnings
// - Otherwise → StatusPassed
//
// Suggestions never affect status; they are advisory output only.
func (s *StatusAggregator) ComputeStatus(result *report.Result) values.Status {
	if len(result.Errors) > 0 {
		return values.StatusFailed
	}
	if len(result.Warnings) > 0 {
		return values.StatusWarnings
	}
	return values.StatusPassed
}

// Finalize computes and stores the final status on the result.
func (s *StatusAggregator) Finalize(result *report.Result) {
	result.Status = s.ComputeStatus(result)
}
