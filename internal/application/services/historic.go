package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/propcheck-dev/propcheck/internal/domain/entities"
	"github.com/propcheck-dev/propcheck/internal/domain/report"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// verifyLeafInputs walks from each top-level feature to its true leaf data
// sources and verifies their historic depth. Leaves are de-duplicated by path
// across the whole run, so a table shared between features is verified once
// and attributed to the first feature that reaches it.
func (v *Validator) verifyLeafInputs(ctx context.Context, result *report.Result, features []*entities.Node, inputTables map[string]entities.InputTableConfig, predictWindow int) {
	leafSeen := make(map[string]bool)

	for _, feature := range features {
		leaves := v.resolver.CollectLeafInputs(feature, make(map[string]bool))
		for _, leaf := range leaves {
			if leafSeen[leaf.Path] {
				continue
			}
			leafSeen[leaf.Path] = true

			cfg, ok := inputTables[leaf.Name]
			if !ok {
				slog.Debug("leaf input has no table configuration", "input", leaf.Name)
				continue
			}
			v.verifyTable(ctx, result, cfg, predictWindow, feature.Name, false)
		}
	}
}

// verifyAllInputTables verifies every configured input table, in declaration
// order, reporting problems as warnings. This is the fallback target
// selection for projects whose graph traceability is incomplete: findings
// cannot be attributed to a feature, so they must not fail the run outright.
func (v *Validator) verifyAllInputTables(ctx context.Context, result *report.Result, inputTables map[string]entities.InputTableConfig, predictWindow int) {
	for _, table := range v.project.InputTables {
		cfg, ok := inputTables[table.Name]
		if !ok {
			continue
		}
		v.verifyTable(ctx, result, cfg, predictWindow, "", true)
	}
}

// verifyTable issues at most one verification query for a table and compares
// the returned day range against the prediction window. The table-stats entry
// doubles as the de-duplication guard.
func (v *Validator) verifyTable(ctx context.Context, result *report.Result, cfg entities.InputTableConfig, predictWindow int, feature string, fallback bool) {
	if result.HasTableStats(cfg.Name) {
		slog.Debug("table already verified", "table", cfg.Name)
		return
	}
	if cfg.OccurredAtColumn == "" {
		slog.Debug("table has no event timestamp column", "table", cfg.Name)
		return
	}

	stats, err := v.warehouse.ExecuteAggregate(ctx, cfg.WarehouseTable, cfg.OccurredAtColumn)
	if err != nil {
		slog.Warn("historic data verification failed", "table", cfg.WarehouseTable, "error", err)
		if fallback {
			result.AddWarning(report.Issue{
				Type:        values.IssueFallbackDataValidationSkipped,
				Table:       cfg.Name,
				Message:     fmt.Sprintf("Could not validate historic data availability for table '%s': %v", cfg.Name, err),
				Context:     "This input table issue may not affect your propensity model if the table does not contribute to its feature pipeline",
				Remediation: "If this table is used by your propensity model features, manually verify it contains sufficient historic data",
			})
			return
		}
		result.AddSuggestion(report.Issue{
			Type:        values.IssueDataValidationSkipped,
			Feature:     feature,
			Table:       cfg.Name,
			Message:     fmt.Sprintf("Could not validate historic data availability: %v", err),
			Remediation: "Manually verify the table contains sufficient historic data",
		})
		return
	}

	result.RecordTableStats(cfg.Name, report.TableStats{
		MinDate:          stats.MinDate,
		MaxDate:          stats.MaxDate,
		DateRangeDays:    stats.DateRangeDays,
		TotalRows:        stats.RowCount,
		OccurredAtColumn: cfg.OccurredAtColumn,
	})

	// The boundary is exclusive: training needs point-in-time history beyond
	// the prediction horizon, so a range exactly equal to the window is still
	// insufficient.
	if stats.DateRangeDays > predictWindow {
		return
	}

	if fallback {
		result.AddWarning(report.Issue{
			Type:        values.IssueFallbackInsufficientHistoricData,
			Table:       cfg.Name,
			Message:     fmt.Sprintf("Table '%s' has only %d days of data (min: %s, max: %s). More than %d days (predict_window_days) is recommended for propensity modeling", cfg.Name, stats.DateRangeDays, stats.MinDate, stats.MaxDate, predictWindow),
			Context:     "This input table issue may not affect your propensity model if the table does not contribute to its feature pipeline",
			Remediation: "If this table is used by your propensity model features, ensure it contains sufficient historic data or consider a different data source",
		})
		return
	}

	result.AddError(report.Issue{
		Type:        values.IssueInsufficientHistoricData,
		Feature:     feature,
		Table:       cfg.Name,
		Message:     fmt.Sprintf("Table '%s' has only %d days of data (min: %s, max: %s). More than %d days (predict_window_days) is required to generate the past point-in-time feature data the model trains on. ETL tables that overwrite data cannot provide this historical context", cfg.Name, stats.DateRangeDays, stats.MinDate, stats.MaxDate, predictWindow),
		Remediation: "Ensure the table contains sufficient historic data or consider a different data source",
	})
}
