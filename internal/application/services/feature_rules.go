package services

import (
	"fmt"
	"regexp"

	"github.com/propcheck-dev/propcheck/internal/domain/entities"
	"github.com/propcheck-dev/propcheck/internal/domain/report"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// Time-based SQL functions break point-in-time correctness: production runs
// snapshot a training instant in the past, and a direct "now" call in a
// stored feature definition poisons the history. Matching is boundary-safe:
// the function name must be a whole token followed by an opening parenthesis.
var timeFunctionPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"current_date()", regexp.MustCompile(`(?i)\bcurrent_date\s*\(`)},
	{"datediff()", regexp.MustCompile(`(?i)\bdatediff\s*\(`)},
}

// checkDirectInputFeatures applies the direct-input feature-flag rule: every
// direct training dependency of a feature-bearing kind must be marked as a
// feature. This rule does not recurse.
func (v *Validator) checkDirectInputFeatures(result *report.Result, training *entities.Node) {
	deps, _ := v.resolver.DirectDependencies(training)
	for _, dep := range deps {
		if !dep.Kind.CarriesFeatureDefinition() {
			continue
		}
		if dep.IsFeature {
			continue
		}
		result.AddError(report.Issue{
			Type:        values.IssueNonFeatureInput,
			Feature:     dep.Name,
			Message:     fmt.Sprintf("Direct input '%s' must have is_feature: true for propensity modeling", dep.Name),
			Remediation: fmt.Sprintf("Ensure '%s' is marked as a feature in your configuration", dep.Name),
		})
	}
}

// checkFeatureSubgraphs applies the time-function and event-stream-source
// rules to every entity variable reachable from the training node, recursing
// through intermediate variable kinds. Both rules share one visited set per
// top-level feature so a feature reached twice through a diamond reports
// once. Returns the top-level feature nodes for the historic-depth pass, in
// dependency declaration order.
func (v *Validator) checkFeatureSubgraphs(result *report.Result, training *entities.Node) []*entities.Node {
	var features []*entities.Node
	checked := make(map[string]bool)

	for _, path := range training.Dependencies {
		dep, ok := v.graph.GetNode(path)
		if !ok {
			result.AddError(report.Issue{
				Type:        values.IssueDependencyNotFound,
				Message:     fmt.Sprintf("Dependency '%s' not found in the project", path),
				Remediation: "Ensure the dependency declared by the propensity model exists in the project",
			})
			continue
		}

		if dep.Kind != values.KindEntityVarItem {
			continue
		}
		if checked[dep.Path] {
			continue
		}
		features = append(features, dep)

		visited := make(map[string]bool)
		v.resolver.Walk(dep, visited, func(node *entities.Node) bool {
			if !node.Kind.IsVarItem() {
				return false
			}
			if checked[node.Path] {
				return true
			}
			checked[node.Path] = true

			v.checkTimeFunctions(result, node)
			v.checkEventStreamSources(result, node)
			return true
		})
	}

	return features
}

// checkTimeFunctions scans a feature's stored definition text for disallowed
// time-based function calls. The raw pre-expansion text is scanned because
// that is exactly what the stored definition contains; only the approved
// macro substitution is point-in-time safe.
func (v *Validator) checkTimeFunctions(result *report.Result, node *entities.Node) {
	if !node.Kind.CarriesFeatureDefinition() || node.FeatureDefinition == "" {
		return
	}

	for _, tf := range timeFunctionPatterns {
		if !tf.pattern.MatchString(node.FeatureDefinition) {
			continue
		}
		result.AddError(report.Issue{
			Type:        values.IssueTimeFunctionInFeature,
			Feature:     node.Name,
			Message:     fmt.Sprintf("Feature '%s' uses %s which is not allowed in propensity models", node.Name, tf.name),
			Remediation: fmt.Sprintf("Remove %s and use point-in-time feature calculations instead", tf.name),
		})
	}
}

// checkEventStreamSources applies the event-stream-source rule to a feature's
// direct dependencies: raw sources must carry an immutable historical log,
// not an overwritten snapshot.
func (v *Validator) checkEventStreamSources(result *report.Result, node *entities.Node) {
	deps, unresolved := v.resolver.DirectDependencies(node)
	for _, path := range unresolved {
		result.AddError(report.Issue{
			Type:        values.IssueDependencyNotFound,
			Message:     fmt.Sprintf("Dependency '%s' not found in the project", path),
			Remediation: "Ensure the dependency declared by the propensity model exists in the project",
		})
	}

	for _, dep := range deps {
		if !dep.Kind.IsSource() {
			continue
		}
		if dep.IsEventStream {
			continue
		}
		result.AddError(report.Issue{
			Type:        values.IssueNonEventStreamInput,
			Feature:     node.Name,
			Table:       dep.Name,
			Message:     fmt.Sprintf("Input table '%s' used by feature '%s' must have is_event_stream: true for propensity modeling", dep.Name, node.Name),
			Remediation: fmt.Sprintf("Declare an event timestamp column for input '%s' so it is treated as an event stream", dep.Name),
		})
	}
}
