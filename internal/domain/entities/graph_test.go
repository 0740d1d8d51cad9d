package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

func testNodes() []Node {
	return []Node{
		{Name: "events", Path: "inputs/events", Kind: values.KindInput, IsEventStream: true},
		{Name: "orders", Path: "inputs/orders", Kind: values.KindInput},
		{
			Name: "order_count", Path: "user/all/order_count",
			Kind: values.KindEntityVarItem, Entity: "user", IsFeature: true,
			Dependencies:      []string{"inputs/orders", "inputs/missing"},
			FeatureDefinition: "count(*)",
		},
		{
			Name: "churn_training", Path: "models/churn_training",
			Kind:         values.KindTraining,
			Dependencies: []string{"user/all/order_count"},
		},
	}
}

func Test_NewModelGraph_IndexesByPath(t *testing.T) {
	g := NewModelGraph([]Entity{{Name: "user", IDColumnName: "user_id"}}, testNodes())

	require.Equal(t, 4, g.NodeCount())

	n, ok := g.GetNode("user/all/order_count")
	require.True(t, ok)
	assert.Equal(t, "order_count", n.Name)
	assert.True(t, n.IsFeature)

	_, ok = g.GetNode("inputs/missing")
	assert.False(t, ok)

	e, ok := g.GetEntity("user")
	require.True(t, ok)
	assert.Equal(t, "user_id", e.IDColumnName)
}

func Test_NewModelGraph_AdjacencySkipsUnresolved(t *testing.T) {
	g := NewModelGraph(nil, testNodes())

	id, ok := g.IDForPath("user/all/order_count")
	require.True(t, ok)

	adj := g.Adjacency(id)
	require.Len(t, adj, 1)
	assert.Equal(t, "inputs/orders", g.NodeByID(adj[0]).Path)

	// The raw dependency list still carries the unresolved path.
	assert.Equal(t, []string{"inputs/orders", "inputs/missing"}, g.NodeByID(id).Dependencies)
}

func Test_NewModelGraph_DuplicatePathKeepsFirst(t *testing.T) {
	nodes := []Node{
		{Name: "first", Path: "inputs/events", Kind: values.KindInput},
		{Name: "second", Path: "inputs/events", Kind: values.KindSQLTemplate},
	}
	g := NewModelGraph(nil, nodes)

	require.Equal(t, 1, g.NodeCount())
	n, _ := g.GetNode("inputs/events")
	assert.Equal(t, "first", n.Name)
}

func Test_ModelGraph_NodesByKind(t *testing.T) {
	g := NewModelGraph(nil, testNodes())

	inputs := g.NodesByKind(values.KindInput)
	require.Len(t, inputs, 2)
	assert.Equal(t, "events", inputs[0].Name)
	assert.Equal(t, "orders", inputs[1].Name)

	features := g.FeatureNodes()
	require.Len(t, features, 1)
	assert.Equal(t, "order_count", features[0].Name)

	byEntity := g.NodesByEntity("user")
	require.Len(t, byEntity, 1)
	assert.Equal(t, "order_count", byEntity[0].Name)
}

func Test_ModelGraph_GetNodeByName(t *testing.T) {
	g := NewModelGraph(nil, testNodes())

	n, ok := g.GetNodeByName("churn_training")
	require.True(t, ok)
	assert.Equal(t, "models/churn_training", n.Path)

	_, ok = g.GetNodeByName("nope")
	assert.False(t, ok)
}

func Test_ModelGraph_IsEmpty(t *testing.T) {
	var g *ModelGraph
	assert.True(t, g.IsEmpty())
	assert.True(t, NewModelGraph(nil, nil).IsEmpty())
	assert.False(t, NewModelGraph(nil, testNodes()).IsEmpty())
}

func Test_ProjectConfig_Lookups(t *testing.T) {
	window := 60
	cfg := &ProjectConfig{
		Name: "demo",
		Models: []PropensityModelSpec{
			{Name: "churn", PredictWindowDays: &window},
			{Name: "upsell"},
		},
		InputTables: []InputTableConfig{
			{Name: "events", WarehouseTable: "raw.events", OccurredAtColumn: "ts"},
			{Name: "events", WarehouseTable: "raw.events_v2"},
		},
	}

	m, ok := cfg.FindPropensityModel("churn")
	require.True(t, ok)
	require.NotNil(t, m.PredictWindowDays)
	assert.Equal(t, 60, *m.PredictWindowDays)

	_, ok = cfg.FindPropensityModel("winback")
	assert.False(t, ok)

	assert.Equal(t, []string{"churn", "upsell"}, cfg.ModelNames())

	tables := cfg.InputTableMap()
	require.Len(t, tables, 1)
	assert.Equal(t, "raw.events", tables["events"].WarehouseTable)
}
