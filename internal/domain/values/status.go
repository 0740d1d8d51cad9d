package values

import "fmt"

// Status represents the overall outcome of a validation run.
type Status string

const (
	// StatusPassed indicates no errors and no warnings were recorded
	StatusPassed Status = "PASSED"
	// StatusWarnings indicates warnings were recorded but no errors
	StatusWarnings Status = "WARNINGS"
	// StatusFailed indicates at least one error was recorded
	StatusFailed Status = "FAILED"
)

// Precedence returns the numeric precedence of this status.
// Higher values indicate higher priority in aggregation.
//
// Precedence: Failed (2) > Warnings (1) > Passed (0)
func (s Status) Precedence() int {
	switch s {
	case StatusFailed:
		return 2
	case StatusWarnings:
		return 1
	case StatusPassed:
		return 0
	default:
		return -1
	}
}

// IsFailure returns true if the run failed.
func (s Status) IsFailure() bool {
	return s == StatusFailed
}

// IsSuccess returns true if the run passed cleanly.
func (s Status) IsSuccess() bool {
	return s == StatusPassed
}

// Validate returns an error if the status value is invalid.
func (s Status) Validate() error {
	switch s {
	case StatusPassed, StatusWarnings, StatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}
