package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/propcheck-dev/propcheck/internal/application/ports"
	"github.com/propcheck-dev/propcheck/internal/application/services"
	"github.com/propcheck-dev/propcheck/internal/domain/report"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
	"github.com/propcheck-dev/propcheck/internal/infrastructure/config"
	"github.com/propcheck-dev/propcheck/internal/infrastructure/warehouse"
	"github.com/propcheck-dev/propcheck/internal/output"
)

var (
	projectDir  string
	graphPath   string
	format      string
	outFile     string
	dialectName string
	dsn         string
	fallback    bool
	validateAll bool
	filterExpr  string
	timeout     time.Duration
	concurrency int
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [model]",
	Short: "Validate a propensity model against the project graph",
	Long: `Run all validation rules for a propensity model: model specification,
direct input features, time functions in feature definitions, event-stream
sources, and historic data depth of leaf input tables.

Without a warehouse connection the historic data checks degrade to
suggestions; every graph and configuration rule still runs.

Filtering:
  --filter "type == 'TIME_FUNCTION_IN_FEATURE'"   Keep one issue type
  --filter "severity == 'error'"                  Keep errors only
  --filter "table startsWith 'raw_'"              Keep issues on matching tables`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := ""
		if len(args) == 1 {
			model = args[0]
		}
		return runValidateAction(cmd.Context(), model)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&projectDir, "project", "p", ".", "Project directory containing pb_project.yaml")
	validateCmd.Flags().StringVarP(&graphPath, "graph", "g", "", "Path to the compiled model graph JSON (required)")
	validateCmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, yaml")
	validateCmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file path (default: stdout)")
	validateCmd.Flags().StringVar(&dialectName, "dialect", "snowflake", "Warehouse SQL dialect: snowflake, bigquery, redshift, databricks, postgres")
	validateCmd.Flags().StringVar(&dsn, "warehouse-dsn", "", "Warehouse connection string (default: $PROPCHECK_WAREHOUSE_DSN)")
	validateCmd.Flags().BoolVar(&fallback, "fallback", false, "Verify every configured input table instead of feature leaf inputs")
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "Validate every propensity model declared in the project")
	validateCmd.Flags().StringVar(&filterExpr, "filter", "", "Issue filter expression (e.g. \"severity == 'error'\")")
	validateCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall validation timeout")
	validateCmd.Flags().IntVar(&concurrency, "concurrency", 4, "Models validated in parallel with --all")

	_ = validateCmd.MarkFlagRequired("graph")
}

// runValidateAction implements the core logic for the validate command
func runValidateAction(ctx context.Context, model string) error {
	if model == "" && !validateAll {
		return fmt.Errorf("a model name is required unless --all is set")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dialect, err := values.ParseDialect(dialectName)
	if err != nil {
		return err
	}

	mode := values.ModeStrict
	if fallback {
		mode = values.ModeFallback
	}

	// Compile the filter up front so a bad expression fails fast
	filter, err := compileFilter()
	if err != nil {
		return err
	}

	slog.Info("loading project", "dir", projectDir)
	project, err := config.NewProjectLoader(slog.Default()).Load(projectDir)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	slog.Info("project loaded", "name", project.Name, "models", len(project.Models), "input_tables", len(project.InputTables))

	graphLoader, err := config.NewGraphLoader()
	if err != nil {
		return err
	}
	graph, err := graphLoader.Load(graphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	slog.Info("graph loaded", "nodes", graph.NodeCount(), "entities", graph.EntityCount())

	wh, cleanup, err := connectWarehouse(ctx, dialect)
	if err != nil {
		return err
	}
	defer cleanup()

	names := []string{model}
	if validateAll {
		names = project.ModelNames()
		if len(names) == 0 {
			return fmt.Errorf("project declares no propensity models")
		}
	}

	validator := services.NewValidator(graph, project, wh, mode)
	slog.Info("validating", "models", len(names), "mode", mode, "run_id", validator.RunID())

	results := services.ValidateAll(ctx, validator, names, concurrency)

	if filter != nil {
		for i, result := range results {
			filtered, err := services.FilterResult(result, filter)
			if err != nil {
				return err
			}
			results[i] = filtered
		}
	}

	if err := writeResults(results); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	// Return non-zero exit code if any model failed validation
	var failed int
	for _, result := range results {
		if result.Status.IsFailure() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d models", failed, len(results))
	}

	return nil
}

func compileFilter() (*vm.Program, error) {
	if filterExpr == "" {
		return nil, nil
	}
	return services.CompileIssueFilter(filterExpr)
}

// connectWarehouse dials the configured warehouse, or falls back to the
// offline client when no DSN is configured.
func connectWarehouse(ctx context.Context, dialect values.Dialect) (ports.Warehouse, func(), error) {
	connString := dsn
	if connString == "" {
		connString = viper.GetString("warehouse_dsn")
	}
	if connString == "" {
		slog.Warn("no warehouse DSN configured, historic data checks will be skipped")
		return warehouse.NewOffline(dialect), func() {}, nil
	}

	client, err := warehouse.NewPostgresWarehouse(ctx, connString, dialect)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect warehouse: %w", err)
	}
	return client, client.Close, nil
}

// writeResults renders results to stdout or the configured output file.
func writeResults(results []*report.Result) error {
	writer := os.Stdout
	if outFile != "" {
		//nolint:gosec // G304: User-controlled output file path is intentional
		file, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = file.Close() // Best-effort cleanup
		}()
		writer = file
		slog.Info("writing output", "file", outFile, "format", format)
	}

	formatter, err := output.NewFormatter(format, writer)
	if err != nil {
		return err
	}
	return formatter.Format(results)
}
