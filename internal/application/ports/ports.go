// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/propcheck-dev/propcheck/internal/domain/entities"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// HistoricStats is the result of one verification query against a table.
type HistoricStats struct {
	MinDate       string
	MaxDate       string
	DateRangeDays int
	RowCount      int64
}

// Warehouse is the consumed warehouse collaborator. The validator issues only
// one aggregate shape through it and never arbitrary SQL; everything about
// connections, sessions, and authentication lives behind this interface.
//
// ExecuteAggregate is the only blocking point of a validation run, so it is
// the one place a deadline or cancellation is threaded through.
type Warehouse interface {
	// Dialect identifies the SQL dialect, used only to select the
	// date-difference expression form.
	Dialect() values.Dialect

	// ExecuteAggregate returns min/max event date, day range, and row count
	// for a table's timestamp column.
	ExecuteAggregate(ctx context.Context, table, timestampColumn string) (HistoricStats, error)
}

// GraphLoader loads the machine-readable graph description.
type GraphLoader interface {
	Load(path string) (*entities.ModelGraph, error)
}

// ProjectLoader loads the raw project configuration.
type ProjectLoader interface {
	Load(projectDir string) (*entities.ProjectConfig, error)
}
