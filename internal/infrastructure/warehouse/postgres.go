package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propcheck-dev/propcheck/internal/application/ports"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// rowQuerier is the slice of the pgx pool the client actually uses.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresWarehouse measures input table history over a Postgres-protocol
// warehouse. Redshift speaks the same wire protocol, so both dialects share
// this client; only the generated SQL differs.
type PostgresWarehouse struct {
	db      rowQuerier
	pool    *pgxpool.Pool
	dialect values.Dialect
}

// NewPostgresWarehouse connects a pool to the warehouse at dsn.
func NewPostgresWarehouse(ctx context.Context, dsn string, dialect values.Dialect) (*PostgresWarehouse, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("warehouse unreachable: %w", err)
	}
	return &PostgresWarehouse{db: pool, pool: pool, dialect: dialect}, nil
}

// NewPostgresWarehouseFromQuerier wraps an existing connection source.
func NewPostgresWarehouseFromQuerier(db rowQuerier, dialect values.Dialect) *PostgresWarehouse {
	return &PostgresWarehouse{db: db, dialect: dialect}
}

// Dialect reports which SQL dialect the client generates.
func (w *PostgresWarehouse) Dialect() values.Dialect {
	return w.dialect
}

// Close releases the underlying pool, if this client owns one.
func (w *PostgresWarehouse) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

// ExecuteAggregate runs the history-depth aggregate for one table.
func (w *PostgresWarehouse) ExecuteAggregate(ctx context.Context, table, timestampColumn string) (ports.HistoricStats, error) {
	query, err := BuildStatsQuery(w.dialect, table, timestampColumn)
	if err != nil {
		return ports.HistoricStats{}, err
	}

	var (
		minDate   *string
		maxDate   *string
		rangeDays *int
		totalRows int64
	)
	if err := w.db.QueryRow(ctx, query).Scan(&minDate, &maxDate, &rangeDays, &totalRows); err != nil {
		return ports.HistoricStats{}, fmt.Errorf("stats query failed for %s: %w", table, err)
	}

	// An empty table aggregates to NULLs. There is no history to measure.
	if minDate == nil || maxDate == nil || rangeDays == nil {
		return ports.HistoricStats{}, fmt.Errorf("table %s has no rows with %s set", table, timestampColumn)
	}

	return ports.HistoricStats{
		MinDate:       *minDate,
		MaxDate:       *maxDate,
		DateRangeDays: *rangeDays,
		RowCount:      totalRows,
	}, nil
}

var _ ports.Warehouse = (*PostgresWarehouse)(nil)
