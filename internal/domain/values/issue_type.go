package values

import "fmt"

// IssueType classifies a single finding produced during validation.
// The set is closed: renderers and downstream tooling switch on these values.
type IssueType string

const (
	// IssueNoModelsData indicates the graph description was entirely absent.
	IssueNoModelsData IssueType = "NO_MODELS_DATA"
	// IssueModelNotFound indicates the named propensity model does not exist.
	IssueModelNotFound IssueType = "MODEL_NOT_FOUND"
	// IssuePredictWindowNotFound indicates the model declares no predict_window_days.
	IssuePredictWindowNotFound IssueType = "PREDICT_WINDOW_DAYS_NOT_FOUND"
	// IssuePredictWindowNotPositive indicates predict_window_days is zero or negative.
	IssuePredictWindowNotPositive IssueType = "PREDICT_WINDOW_DAYS_NOT_POSITIVE"
	// IssueDependencyNotFound indicates a dependency path did not resolve to a node.
	IssueDependencyNotFound IssueType = "DEPENDENCY_NOT_FOUND"
	// IssueNonFeatureInput indicates a direct training input is not marked as a feature.
	IssueNonFeatureInput IssueType = "NON_FEATURE_INPUT"
	// IssueTimeFunctionInFeature indicates a feature definition calls a "now" function.
	IssueTimeFunctionInFeature IssueType = "TIME_FUNCTION_IN_FEATURE"
	// IssueNonEventStreamInput indicates a feature reads from a non-event-stream source.
	IssueNonEventStreamInput IssueType = "NON_EVENT_STREAM_INPUT"
	// IssueInsufficientHistoricData indicates a leaf table's day range does not
	// exceed the prediction window.
	IssueInsufficientHistoricData IssueType = "INSUFFICIENT_HISTORIC_DATA"
	// IssueFallbackInsufficientHistoricData is the warning variant reported when a
	// table cannot be traced back to a specific feature.
	IssueFallbackInsufficientHistoricData IssueType = "FALLBACK_INSUFFICIENT_HISTORIC_DATA"
	// IssueDataValidationSkipped indicates the warehouse verification query failed.
	IssueDataValidationSkipped IssueType = "DATA_VALIDATION_SKIPPED"
	// IssueFallbackDataValidationSkipped is the warning variant of a failed
	// verification query in fallback mode.
	IssueFallbackDataValidationSkipped IssueType = "FALLBACK_DATA_VALIDATION_SKIPPED"
	// IssueValidationError indicates an unexpected internal failure.
	IssueValidationError IssueType = "VALIDATION_ERROR"
)

// IsFatal reports whether this issue aborts the run before graph traversal.
// Only the model-spec issues stop validation; everything else is collected so
// a single report surfaces every problem in one pass.
func (t IssueType) IsFatal() bool {
	switch t {
	case IssueNoModelsData, IssueModelNotFound,
		IssuePredictWindowNotFound, IssuePredictWindowNotPositive:
		return true
	default:
		return false
	}
}

// Validate returns an error if the issue type is not part of the closed set.
func (t IssueType) Validate() error {
	switch t {
	case IssueNoModelsData, IssueModelNotFound,
		IssuePredictWindowNotFound, IssuePredictWindowNotPositive,
		IssueDependencyNotFound, IssueNonFeatureInput,
		IssueTimeFunctionInFeature, IssueNonEventStreamInput,
		IssueInsufficientHistoricData, IssueFallbackInsufficientHistoricData,
		IssueDataValidationSkipped, IssueFallbackDataValidationSkipped,
		IssueValidationError:
		return nil
	default:
		return fmt.Errorf("invalid issue type: %s", t)
	}
}
