package values

import "fmt"

// NodeKind identifies the type of a node in the model dependency graph.
// The set mirrors what the project compiler emits; lookups on unknown kinds
// simply match no rule rather than failing decode.
type NodeKind string

const (
	KindPropensity    NodeKind = "propensity"
	KindTraining      NodeKind = "training"
	KindPrediction    NodeKind = "prediction"
	KindEntityVarItem NodeKind = "entity_var_item"
	KindInputVarItem  NodeKind = "input_var_item"
	KindNestedColumn  NodeKind = "nested_column"
	KindInput         NodeKind = "input"
	KindSQLTemplate   NodeKind = "sql_template"
	KindIDStitcher    NodeKind = "id_stitcher"
	KindFeatureView   NodeKind = "feature_view"
)

// CarriesFeatureDefinition reports whether nodes of this kind legitimately
// hold a compute expression to run textual checks against.
func (k NodeKind) CarriesFeatureDefinition() bool {
	return k == KindEntityVarItem || k == KindNestedColumn
}

// IsVarItem reports whether traversal should recurse through this kind when
// checking the feature sub-graph of a training model.
func (k NodeKind) IsVarItem() bool {
	return k == KindEntityVarItem || k == KindInputVarItem
}

// IsSource reports whether this kind reads directly from warehouse data and
// is therefore subject to the event-stream rule.
func (k NodeKind) IsSource() bool {
	return k == KindInput || k == KindSQLTemplate
}

// Validate returns an error if the kind is not part of the known set.
func (k NodeKind) Validate() error {
	switch k {
	case KindPropensity, KindTraining, KindPrediction,
		KindEntityVarItem, KindInputVarItem, KindNestedColumn,
		KindInput, KindSQLTemplate, KindIDStitcher, KindFeatureView:
		return nil
	default:
		return fmt.Errorf("invalid node kind: %s", k)
	}
}
