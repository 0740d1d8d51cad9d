package warehouse

import (
	"context"
	"fmt"

	"github.com/propcheck-dev/propcheck/internal/application/ports"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// Offline is the warehouse used when no connection is configured. Every
// aggregate fails, which the rule engine reports as skipped data validation
// rather than a hard failure, so graph and config rules still run.
type Offline struct {
	dialect values.Dialect
}

// NewOffline creates a warehouse client with no connection behind it.
func NewOffline(dialect values.Dialect) *Offline {
	return &Offline{dialect: dialect}
}

func (o *Offline) Dialect() values.Dialect {
	return o.dialect
}

func (o *Offline) ExecuteAggregate(_ context.Context, table, _ string) (ports.HistoricStats, error) {
	return ports.HistoricStats{}, fmt.Errorf("no warehouse connection configured, cannot query %s", table)
}

var _ ports.Warehouse = (*Offline)(nil)
