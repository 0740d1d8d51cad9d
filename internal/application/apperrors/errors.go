// Package apperrors defines application-level error types.
package apperrors

import "fmt"

// ConfigurationError indicates project or tool configuration could not be
// loaded or understood.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}

// GraphDescriptionError indicates the graph description file failed to decode
// or violated its schema.
type GraphDescriptionError struct {
	Cause   error
	Path    string
	Message string
}

func (e *GraphDescriptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("graph description %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("graph description %s: %s", e.Path, e.Message)
}

func (e *GraphDescriptionError) Unwrap() error {
	return e.Cause
}

// NewGraphDescriptionError creates a new graph description error.
func NewGraphDescriptionError(path, message string, cause error) *GraphDescriptionError {
	return &GraphDescriptionError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}
