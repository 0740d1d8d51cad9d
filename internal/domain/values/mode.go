package values

import (
	"fmt"
	"strings"
)

// Mode selects how historic-data verification chooses its targets.
//
// Strict mode verifies only the leaf input tables actually reached from the
// model's feature dependencies, reporting problems as errors. Fallback mode
// verifies every configured input table that declares an event timestamp and
// reports problems as warnings, for projects whose graph traceability is
// incomplete.
type Mode string

const (
	ModeStrict   Mode = "strict"
	ModeFallback Mode = "fallback"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return ModeStrict, nil
	case "fallback":
		return ModeFallback, nil
	default:
		return "", fmt.Errorf("invalid validation mode: %s (supported: strict, fallback)", s)
	}
}

// IsFallback reports whether fallback target selection is active.
func (m Mode) IsFallback() bool {
	return m == ModeFallback
}
