package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propcheck-dev/propcheck/internal/application/ports"
	"github.com/propcheck-dev/propcheck/internal/domain/entities"
	"github.com/propcheck-dev/propcheck/internal/domain/report"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// fakeWarehouse records every aggregate query so tests can assert the
// once-per-table invariant.
type fakeWarehouse struct {
	dialect values.Dialect
	stats   map[string]ports.HistoricStats
	errs    map[string]error
	queried []string
}

func (f *fakeWarehouse) Dialect() values.Dialect {
	if f.dialect == "" {
		return values.DialectSnowflake
	}
	return f.dialect
}

func (f *fakeWarehouse) ExecuteAggregate(_ context.Context, table, _ string) (ports.HistoricStats, error) {
	f.queried = append(f.queried, table)
	if err, ok := f.errs[table]; ok {
		return ports.HistoricStats{}, err
	}
	if stats, ok := f.stats[table]; ok {
		return stats, nil
	}
	return ports.HistoricStats{}, errors.New("table not found")
}

// scenario is the §-free base fixture: one user entity, one feature a_max
// computed from event-stream input tbl_a, training window of 60 days.
type scenario struct {
	definition    string
	eventStream   bool
	isFeature     bool
	predictWindow *int
}

func intPtr(n int) *int { return &n }

func defaultScenario() scenario {
	return scenario{
		definition:    "max(num_a)",
		eventStream:   true,
		isFeature:     true,
		predictWindow: intPtr(60),
	}
}

func buildScenario(s scenario) (*entities.ModelGraph, *entities.ProjectConfig) {
	graph := entities.NewModelGraph(
		[]entities.Entity{{Name: "user", IDColumnName: "user_id", IDTypes: []string{"user_id", "email"}}},
		[]entities.Node{
			{Name: "tbl_a", Path: "inputs/tbl_a", Kind: values.KindInput, IsEventStream: s.eventStream},
			{
				Name: "a_max", Path: "user/all/a_max", Kind: values.KindEntityVarItem,
				Entity: "user", IsFeature: s.isFeature,
				Dependencies:      []string{"inputs/tbl_a"},
				FeatureDefinition: s.definition,
			},
			{
				Name: "churn_training", Path: "models/churn_training", Kind: values.KindTraining,
				Dependencies: []string{"user/all/a_max"},
			},
			{
				Name: "churn", Path: "models/churn", Kind: values.KindPropensity,
				Dependencies: []string{"models/churn_training"},
			},
		},
	)

	project := &entities.ProjectConfig{
		Name:   "demo",
		Models: []entities.PropensityModelSpec{{Name: "churn", Entity: "user", PredictWindowDays: s.predictWindow}},
		InputTables: []entities.InputTableConfig{
			{Name: "tbl_a", WarehouseTable: "raw.tbl_a", OccurredAtColumn: "ts"},
		},
	}

	return graph, project
}

func healthyWarehouse() *fakeWarehouse {
	return &fakeWarehouse{
		stats: map[string]ports.HistoricStats{
			"raw.tbl_a": {MinDate: "2026-01-01", MaxDate: "2026-04-01", DateRangeDays: 90, RowCount: 12345},
		},
	}
}

func issueTypes(issues []report.Issue) []values.IssueType {
	out := make([]values.IssueType, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Type)
	}
	return out
}

func Test_Validator_EndToEnd_Passes(t *testing.T) {
	graph, project := buildScenario(defaultScenario())
	wh := healthyWarehouse()

	v := NewValidator(graph, project, wh, values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusPassed, result.Status)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)

	require.Contains(t, result.TableStats, "tbl_a")
	stats := result.TableStats["tbl_a"]
	assert.Equal(t, 90, stats.DateRangeDays)
	assert.Equal(t, int64(12345), stats.TotalRows)
	assert.Equal(t, "ts", stats.OccurredAtColumn)
	assert.Equal(t, []string{"raw.tbl_a"}, wh.queried)
}

func Test_Validator_NonEventStreamInput(t *testing.T) {
	s := defaultScenario()
	s.eventStream = false
	graph, project := buildScenario(s)

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusFailed, result.Status)
	require.Equal(t, []values.IssueType{values.IssueNonEventStreamInput}, issueTypes(result.Errors))
	assert.Equal(t, "a_max", result.Errors[0].Feature)
	assert.Equal(t, "tbl_a", result.Errors[0].Table)
}

func Test_Validator_TimeFunctions(t *testing.T) {
	tests := []struct {
		name       string
		definition string
		expected   int
	}{
		{"current_date upper case", "max(CURRENT_DATE() - num_a)", 1},
		{"datediff lower case", "datediff(day, ts, event_ts)", 1},
		{"both functions", "datediff(day, current_date(), ts)", 2},
		{"whitespace before paren", "current_date ()", 1},
		{"substring of longer identifier", "my_datediff(ts) + app_current_date(x)", 0},
		{"clean definition", "max(num_a)", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultScenario()
			s.definition = tt.definition
			graph, project := buildScenario(s)

			v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
			result := v.Validate(context.Background(), "churn")

			var timeErrors []report.Issue
			for _, e := range result.Errors {
				if e.Type == values.IssueTimeFunctionInFeature {
					timeErrors = append(timeErrors, e)
				}
			}
			require.Len(t, timeErrors, tt.expected)
			for _, e := range timeErrors {
				assert.Equal(t, "a_max", e.Feature)
			}
			if tt.expected > 0 {
				assert.Equal(t, values.StatusFailed, result.Status)
			}
		})
	}
}

func Test_Validator_NonFeatureInput(t *testing.T) {
	s := defaultScenario()
	s.isFeature = false
	graph, project := buildScenario(s)

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusFailed, result.Status)
	require.Equal(t, []values.IssueType{values.IssueNonFeatureInput}, issueTypes(result.Errors))
	assert.Equal(t, "a_max", result.Errors[0].Feature)
}

func Test_Validator_PredictWindowSpec(t *testing.T) {
	tests := []struct {
		name     string
		window   *int
		expected values.IssueType
	}{
		{"zero window", intPtr(0), values.IssuePredictWindowNotPositive},
		{"negative window", intPtr(-5), values.IssuePredictWindowNotPositive},
		{"missing window", nil, values.IssuePredictWindowNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultScenario()
			s.predictWindow = tt.window
			graph, project := buildScenario(s)
			wh := healthyWarehouse()

			v := NewValidator(graph, project, wh, values.ModeStrict)
			result := v.Validate(context.Background(), "churn")

			assert.Equal(t, values.StatusFailed, result.Status)
			require.Equal(t, []values.IssueType{tt.expected}, issueTypes(result.Errors))
			// Fatal spec errors stop the run before any warehouse work.
			assert.Empty(t, wh.queried)
			assert.Empty(t, result.TableStats)
		})
	}
}

func Test_Validator_ModelNotFound(t *testing.T) {
	graph, project := buildScenario(defaultScenario())

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	result := v.Validate(context.Background(), "winback")

	assert.Equal(t, values.StatusFailed, result.Status)
	require.Equal(t, []values.IssueType{values.IssueModelNotFound}, issueTypes(result.Errors))
}

func Test_Validator_EmptyGraph(t *testing.T) {
	_, project := buildScenario(defaultScenario())
	graph := entities.NewModelGraph(nil, nil)

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusFailed, result.Status)
	require.Equal(t, []values.IssueType{values.IssueNoModelsData}, issueTypes(result.Errors))
}

func Test_Validator_TrainingNodeMissing(t *testing.T) {
	graph := entities.NewModelGraph(nil, []entities.Node{
		{Name: "churn", Path: "models/churn", Kind: values.KindPropensity},
	})
	_, project := buildScenario(defaultScenario())

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusFailed, result.Status)
	require.Equal(t, []values.IssueType{values.IssueValidationError}, issueTypes(result.Errors))
}

func Test_Validator_DependencyNotFound(t *testing.T) {
	graph := entities.NewModelGraph(nil, []entities.Node{
		{
			Name: "churn_training", Path: "models/churn_training", Kind: values.KindTraining,
			Dependencies: []string{"user/all/ghost"},
		},
	})
	_, project := buildScenario(defaultScenario())

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusFailed, result.Status)
	require.Equal(t, []values.IssueType{values.IssueDependencyNotFound}, issueTypes(result.Errors))
	assert.Contains(t, result.Errors[0].Message, "user/all/ghost")
}

func Test_Validator_HistoricDepthBoundary(t *testing.T) {
	tests := []struct {
		name      string
		rangeDays int
		failed    bool
	}{
		{"range below window", 30, true},
		{"range equal to window is still insufficient", 60, true},
		{"range beyond window", 61, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph, project := buildScenario(defaultScenario())
			wh := &fakeWarehouse{stats: map[string]ports.HistoricStats{
				"raw.tbl_a": {MinDate: "2026-01-01", MaxDate: "2026-03-01", DateRangeDays: tt.rangeDays, RowCount: 10},
			}}

			v := NewValidator(graph, project, wh, values.ModeStrict)
			result := v.Validate(context.Background(), "churn")

			if tt.failed {
				assert.Equal(t, values.StatusFailed, result.Status)
				require.Equal(t, []values.IssueType{values.IssueInsufficientHistoricData}, issueTypes(result.Errors))
				assert.Equal(t, "a_max", result.Errors[0].Feature)
				assert.Equal(t, "tbl_a", result.Errors[0].Table)
			} else {
				assert.Equal(t, values.StatusPassed, result.Status)
				assert.Empty(t, result.Errors)
			}
			// Stats are recorded either way.
			assert.Equal(t, tt.rangeDays, result.TableStats["tbl_a"].DateRangeDays)
		})
	}
}

func Test_Validator_SharedLeafVerifiedOnce(t *testing.T) {
	graph := entities.NewModelGraph(nil, []entities.Node{
		{Name: "tbl_a", Path: "inputs/tbl_a", Kind: values.KindInput, IsEventStream: true},
		{
			Name: "a_max", Path: "user/all/a_max", Kind: values.KindEntityVarItem, IsFeature: true,
			Dependencies: []string{"inputs/tbl_a"}, FeatureDefinition: "max(num_a)",
		},
		{
			Name: "a_min", Path: "user/all/a_min", Kind: values.KindEntityVarItem, IsFeature: true,
			Dependencies: []string{"inputs/tbl_a"}, FeatureDefinition: "min(num_a)",
		},
		{
			Name: "churn_training", Path: "models/churn_training", Kind: values.KindTraining,
			Dependencies: []string{"user/all/a_max", "user/all/a_min"},
		},
	})
	_, project := buildScenario(defaultScenario())
	wh := healthyWarehouse()

	v := NewValidator(graph, project, wh, values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusPassed, result.Status)
	assert.Equal(t, []string{"raw.tbl_a"}, wh.queried)
	assert.Len(t, result.TableStats, 1)
}

func Test_Validator_WarehouseFailureDegrades(t *testing.T) {
	graph, project := buildScenario(defaultScenario())
	wh := &fakeWarehouse{errs: map[string]error{"raw.tbl_a": errors.New("permission denied")}}

	v := NewValidator(graph, project, wh, values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	// A failed verification query is advisory in strict mode.
	assert.Equal(t, values.StatusPassed, result.Status)
	assert.Empty(t, result.Errors)
	require.Equal(t, []values.IssueType{values.IssueDataValidationSkipped}, issueTypes(result.Suggestions))
	assert.Equal(t, "tbl_a", result.Suggestions[0].Table)
	assert.Empty(t, result.TableStats)
}

func Test_Validator_FallbackMode(t *testing.T) {
	s := defaultScenario()
	graph, project := buildScenario(s)
	project.InputTables = append(project.InputTables,
		entities.InputTableConfig{Name: "tbl_b", WarehouseTable: "raw.tbl_b", OccurredAtColumn: "created_at"},
		entities.InputTableConfig{Name: "tbl_c", WarehouseTable: "raw.tbl_c"},
	)

	wh := &fakeWarehouse{
		stats: map[string]ports.HistoricStats{
			"raw.tbl_a": {MinDate: "2026-01-01", MaxDate: "2026-04-01", DateRangeDays: 90, RowCount: 10},
			"raw.tbl_b": {MinDate: "2026-03-01", MaxDate: "2026-03-10", DateRangeDays: 9, RowCount: 5},
		},
	}

	v := NewValidator(graph, project, wh, values.ModeFallback)
	result := v.Validate(context.Background(), "churn")

	// tbl_b is too shallow, but fallback findings are warnings, not errors.
	assert.Equal(t, values.StatusWarnings, result.Status)
	assert.Empty(t, result.Errors)
	require.Equal(t, []values.IssueType{values.IssueFallbackInsufficientHistoricData}, issueTypes(result.Warnings))
	assert.Equal(t, "tbl_b", result.Warnings[0].Table)

	// tbl_c has no event timestamp column and is skipped entirely.
	assert.Equal(t, []string{"raw.tbl_a", "raw.tbl_b"}, wh.queried)
}

func Test_Validator_FallbackMode_QueryFailureWarns(t *testing.T) {
	graph, project := buildScenario(defaultScenario())
	wh := &fakeWarehouse{errs: map[string]error{"raw.tbl_a": errors.New("network timeout")}}

	v := NewValidator(graph, project, wh, values.ModeFallback)
	result := v.Validate(context.Background(), "churn")

	assert.Equal(t, values.StatusWarnings, result.Status)
	require.Equal(t, []values.IssueType{values.IssueFallbackDataValidationSkipped}, issueTypes(result.Warnings))
}

func Test_Validator_Deterministic(t *testing.T) {
	s := defaultScenario()
	s.eventStream = false
	s.definition = "datediff(day, current_date(), ts)"
	graph, project := buildScenario(s)

	first := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict).Validate(context.Background(), "churn")
	second := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict).Validate(context.Background(), "churn")

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func Test_Validator_CyclicGraphTerminates(t *testing.T) {
	graph := entities.NewModelGraph(nil, []entities.Node{
		{
			Name: "a_max", Path: "user/all/a_max", Kind: values.KindEntityVarItem, IsFeature: true,
			Dependencies: []string{"user/all/a_min"}, FeatureDefinition: "max(num_a)",
		},
		{
			Name: "a_min", Path: "user/all/a_min", Kind: values.KindEntityVarItem, IsFeature: true,
			Dependencies: []string{"user/all/a_max"}, FeatureDefinition: "min(num_a)",
		},
		{
			Name: "churn_training", Path: "models/churn_training", Kind: values.KindTraining,
			Dependencies: []string{"user/all/a_max"},
		},
	})
	_, project := buildScenario(defaultScenario())

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	result := v.Validate(context.Background(), "churn")

	// No leaves, no sources: the cycle just terminates cleanly.
	assert.Equal(t, values.StatusPassed, result.Status)
}

func Test_ValidateAll_PreservesOrder(t *testing.T) {
	graph, project := buildScenario(defaultScenario())
	project.Models = append(project.Models, entities.PropensityModelSpec{Name: "upsell"})

	v := NewValidator(graph, project, healthyWarehouse(), values.ModeStrict)
	results := ValidateAll(context.Background(), v, []string{"churn", "upsell", "winback"}, 2)

	require.Len(t, results, 3)
	assert.Equal(t, "churn", results[0].ModelName)
	assert.Equal(t, values.StatusPassed, results[0].Status)
	assert.Equal(t, "upsell", results[1].ModelName)
	assert.Equal(t, values.StatusFailed, results[1].Status) // no predict window
	assert.Equal(t, "winback", results[2].ModelName)
	assert.Equal(t, values.StatusFailed, results[2].Status) // not configured
}
