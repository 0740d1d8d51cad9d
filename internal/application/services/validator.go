// Package services contains application services that orchestrate domain
// logic against infrastructure ports.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/propcheck-dev/propcheck/internal/application/ports"
	"github.com/propcheck-dev/propcheck/internal/domain/entities"
	"github.com/propcheck-dev/propcheck/internal/domain/report"
	domsvc "github.com/propcheck-dev/propcheck/internal/domain/services"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// Validator is the rule engine: it checks one propensity model's declared
// spec, walks its dependency graph applying the correctness rules, and
// verifies historic depth of the leaf data sources through the warehouse
// collaborator.
//
// A Validator is immutable after construction and safe for concurrent
// Validate calls; each call owns its own result and table-stats cache.
type Validator struct {
	graph      *entities.ModelGraph
	project    *entities.ProjectConfig
	warehouse  ports.Warehouse
	mode       values.Mode
	resolver   *domsvc.DependencyResolver
	aggregator *domsvc.StatusAggregator
	runID      values.RunID
}

// NewValidator creates a validator over loaded, immutable inputs.
func NewValidator(graph *entities.ModelGraph, project *entities.ProjectConfig, warehouse ports.Warehouse, mode values.Mode) *Validator {
	return &Validator{
		graph:      graph,
		project:    project,
		warehouse:  warehouse,
		mode:       mode,
		resolver:   domsvc.NewDependencyResolver(graph),
		aggregator: domsvc.NewStatusAggregator(),
		runID:      values.NewRunID(),
	}
}

// RunID returns the identifier of this validator instance for log correlation.
func (v *Validator) RunID() values.RunID {
	return v.runID
}

// Validate runs every rule against the named propensity model and returns a
// complete report. It never returns an error and never panics past its own
// boundary: unexpected internal faults become a single VALIDATION_ERROR
// finding with status FAILED.
//
// The context is threaded only into warehouse verification queries, the sole
// blocking point of a run.
func (v *Validator) Validate(ctx context.Context, modelName string) (result *report.Result) {
	result = report.NewResult(modelName)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("unexpected validation failure", "model", modelName, "run_id", v.runID, "panic", rec)
			result.AddError(report.Issue{
				Type:        values.IssueValidationError,
				Message:     fmt.Sprintf("Unexpected error during validation: %v", rec),
				Remediation: "Check project configuration files and try again",
			})
			result.Status = values.StatusFailed
		}
	}()

	slog.Info("validating propensity model", "model", modelName, "mode", v.mode, "run_id", v.runID)

	if v.graph.IsEmpty() {
		result.AddError(report.Issue{
			Type:        values.IssueNoModelsData,
			Message:     "No model graph description provided. The project could not be loaded",
			Remediation: "Ensure the graph description is generated and passed to the validator",
		})
		result.Status = values.StatusFailed
		return result
	}

	spec, ok := v.checkModelSpec(result, modelName)
	if !ok {
		result.Status = values.StatusFailed
		return result
	}
	predictWindow := *spec.PredictWindowDays

	training, ok := v.graph.GetNodeByName(modelName + "_training")
	if !ok {
		// The compiler derives a training sub-model for every propensity
		// model, so its absence means the graph and configuration disagree.
		result.AddError(report.Issue{
			Type:        values.IssueValidationError,
			Message:     fmt.Sprintf("Training model '%s_training' not found in the model graph", modelName),
			Remediation: "Regenerate the model graph description and try again",
		})
		result.Status = values.StatusFailed
		return result
	}

	v.checkDirectInputFeatures(result, training)
	features := v.checkFeatureSubgraphs(result, training)

	inputTables := v.project.InputTableMap()
	if v.mode.IsFallback() {
		v.verifyAllInputTables(ctx, result, inputTables, predictWindow)
	} else {
		v.verifyLeafInputs(ctx, result, features, inputTables, predictWindow)
	}

	v.aggregator.Finalize(result)

	slog.Info("validation complete",
		"model", modelName,
		"status", result.Status,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"suggestions", len(result.Suggestions),
		"tables", len(result.TableStats))

	return result
}

// checkModelSpec validates the model's declared configuration. A failure here
// is fatal: the prediction window is the threshold every historic check
// compares against, so traversal without it is meaningless.
func (v *Validator) checkModelSpec(result *report.Result, modelName string) (*entities.PropensityModelSpec, bool) {
	spec, found := v.project.FindPropensityModel(modelName)
	if !found {
		result.AddError(report.Issue{
			Type:        values.IssueModelNotFound,
			Message:     fmt.Sprintf("Propensity model '%s' not found in models configuration", modelName),
			Remediation: "Verify the model name exists in your project configuration",
		})
		return nil, false
	}

	if spec.PredictWindowDays == nil {
		result.AddError(report.Issue{
			Type:        values.IssuePredictWindowNotFound,
			Message:     fmt.Sprintf("Propensity model '%s' has no predict_window_days defined", modelName),
			Remediation: "Add a predict_window_days to the model spec",
		})
		return nil, false
	}

	if *spec.PredictWindowDays <= 0 {
		result.AddError(report.Issue{
			Type:        values.IssuePredictWindowNotPositive,
			Message:     fmt.Sprintf("Propensity model '%s' has a non-positive predict_window_days: %d", modelName, *spec.PredictWindowDays),
			Remediation: "Set predict_window_days to a positive integer",
		})
		return nil, false
	}

	return spec, true
}
