// Package entities contains domain entities for the propcheck domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// Node is a single model in the project dependency graph: a propensity model,
// one of its derived sub-models, a computed feature, or a raw data source.
//
// Dependencies holds raw path references in declaration order. Order is
// significant: traversal follows it so repeated runs produce identical
// reports.
type Node struct {
	Name              string
	DisplayName       string
	Path              string
	Kind              values.NodeKind
	Entity            string
	EntityKey         string
	IsFeature         bool
	IsEventStream     bool
	Dependencies      []string
	WarehouseViewName string
	Materialization   Materialization
	CohortPathRef     string
	// FeatureDefinition is the raw compute expression text, present only for
	// feature-bearing kinds. Textual rules scan it before macro expansion,
	// because the stored definition is exactly what appears here.
	FeatureDefinition string
}

// Materialization describes how a model is materialized in the warehouse.
type Materialization struct {
	OutputType string
	RunType    string
	SQLType    string
}

// Entity is a named grouping (e.g. "user") that features are computed per
// instance of. Read-only reference data.
type Entity struct {
	Name                 string
	Description          string
	IDColumnName         string
	IDModelRef           string
	IDTypes              []string
	PathRef              string
	DefaultCohortPathRef string
}

// ModelGraph holds all nodes and entities of a project, indexed by path for
// O(1) lookup. Nodes live in an arena slice; the path index maps to integer
// node ids and adjacency lists carry resolved dependency ids.
//
// The graph never validates semantic correctness. Broken references surface
// during rule evaluation, not at construction.
type ModelGraph struct {
	nodes     []Node
	byPath    map[string]int
	byName    map[string]int
	adjacency [][]int
	entities  map[string]Entity
}

// NewModelGraph builds an indexed graph from decoded entity and node records.
// Duplicate paths keep the first occurrence; the path is the identity.
func NewModelGraph(ents []Entity, nodes []Node) *ModelGraph {
	g := &ModelGraph{
		nodes:    make([]Node, 0, len(nodes)),
		byPath:   make(map[string]int, len(nodes)),
		byName:   make(map[string]int, len(nodes)),
		entities: make(map[string]Entity, len(ents)),
	}

	for _, e := range ents {
		if _, exists := g.entities[e.Name]; !exists {
			g.entities[e.Name] = e
		}
	}

	for _, n := range nodes {
		if _, exists := g.byPath[n.Path]; exists {
			continue
		}
		id := len(g.nodes)
		g.nodes = append(g.nodes, n)
		g.byPath[n.Path] = id
		if _, exists := g.byName[n.Name]; !exists {
			g.byName[n.Name] = id
		}
	}

	// Adjacency lists hold only resolvable dependencies. Unresolved paths are
	// still visible through Node.Dependencies so callers can report them.
	g.adjacency = make([][]int, len(g.nodes))
	for id := range g.nodes {
		deps := g.nodes[id].Dependencies
		adj := make([]int, 0, len(deps))
		for _, path := range deps {
			if depID, ok := g.byPath[path]; ok {
				adj = append(adj, depID)
			}
		}
		g.adjacency[id] = adj
	}

	return g
}

// GetNode retrieves a node by its path.
func (g *ModelGraph) GetNode(path string) (*Node, bool) {
	id, ok := g.byPath[path]
	if !ok {
		return nil, false
	}
	return &g.nodes[id], true
}

// GetNodeByName retrieves a node by name. When names collide across kinds the
// first declared node wins, matching declaration-order semantics elsewhere.
func (g *ModelGraph) GetNodeByName(name string) (*Node, bool) {
	id, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return &g.nodes[id], true
}

// IDForPath returns the arena id for a path.
func (g *ModelGraph) IDForPath(path string) (int, bool) {
	id, ok := g.byPath[path]
	return id, ok
}

// NodeByID returns the node stored at the given arena id.
func (g *ModelGraph) NodeByID(id int) *Node {
	return &g.nodes[id]
}

// Adjacency returns the resolved dependency ids of a node in declaration order.
func (g *ModelGraph) Adjacency(id int) []int {
	return g.adjacency[id]
}

// NodesByKind returns all nodes of a kind in declaration order.
func (g *ModelGraph) NodesByKind(kind values.NodeKind) []*Node {
	var out []*Node
	for id := range g.nodes {
		if g.nodes[id].Kind == kind {
			out = append(out, &g.nodes[id])
		}
	}
	return out
}

// FeatureNodes returns all nodes flagged as features in declaration order.
func (g *ModelGraph) FeatureNodes() []*Node {
	var out []*Node
	for id := range g.nodes {
		if g.nodes[id].IsFeature {
			out = append(out, &g.nodes[id])
		}
	}
	return out
}

// InputNodes returns all raw data source nodes in declaration order.
func (g *ModelGraph) InputNodes() []*Node {
	return g.NodesByKind(values.KindInput)
}

// NodesByEntity returns all nodes computed for an entity in declaration order.
func (g *ModelGraph) NodesByEntity(entity string) []*Node {
	var out []*Node
	for id := range g.nodes {
		if g.nodes[id].Entity == entity {
			out = append(out, &g.nodes[id])
		}
	}
	return out
}

// GetEntity retrieves an entity definition by name.
func (g *ModelGraph) GetEntity(name string) (Entity, bool) {
	e, ok := g.entities[name]
	return e, ok
}

// EntityCount returns the number of entities.
func (g *ModelGraph) EntityCount() int {
	return len(g.entities)
}

// NodeCount returns the number of nodes.
func (g *ModelGraph) NodeCount() int {
	return len(g.nodes)
}

// IsEmpty reports whether the graph holds no nodes at all.
func (g *ModelGraph) IsEmpty() bool {
	return g == nil || len(g.nodes) == 0
}
