// Package values contains domain value objects that encapsulate
// primitive types with validation.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// RunID uniquely identifies a single validation run, so reports emitted by
// repeated invocations can be correlated with logs.
type RunID struct {
	value uuid.UUID
}

// NewRunID creates a new random run ID.
func NewRunID() RunID {
	return RunID{value: uuid.New()}
}

// ParseRunID parses a string into a RunID.
func ParseRunID(s string) (RunID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, fmt.Errorf("invalid run ID: %w", err)
	}
	return RunID{value: id}, nil
}

// String returns the string representation.
func (r RunID) String() string {
	return r.value.String()
}

// IsZero returns true if this is the zero value.
func (r RunID) IsZero() bool {
	return r.value == uuid.Nil
}

// MarshalJSON implements json.Marshaler.
func (r RunID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RunID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid run ID JSON")
	}
	s = s[1 : len(s)-1]

	id, err := ParseRunID(s)
	if err != nil {
		return err
	}
	*r = id
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r RunID) MarshalYAML() (interface{}, error) {
	return r.value.String(), nil
}
