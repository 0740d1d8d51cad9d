// Package services contains domain services that encapsulate business logic
// spanning multiple entities. These services are stateless between walks and
// safe to reuse across validation passes.
package services

import (
	"github.com/propcheck-dev/propcheck/internal/domain/entities"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// DependencyResolver layers traversal primitives on a ModelGraph.
//
// All traversal is iterative with an explicit stack, so pathological
// configurations cannot exhaust the call stack, and order is derived from
// dependency declaration order so repeated walks are deterministic.
type DependencyResolver struct {
	graph *entities.ModelGraph
}

// NewDependencyResolver creates a resolver over a graph.
func NewDependencyResolver(graph *entities.ModelGraph) *DependencyResolver {
	return &DependencyResolver{graph: graph}
}

// DirectDependencies resolves a node's direct dependency paths in declaration
// order. Unresolved paths are returned separately: a dangling reference is a
// finding, not a crash, and traversal continues with the rest.
func (r *DependencyResolver) DirectDependencies(node *entities.Node) ([]*entities.Node, []string) {
	var resolved []*entities.Node
	var unresolved []string

	for _, path := range node.Dependencies {
		dep, ok := r.graph.GetNode(path)
		if !ok {
			unresolved = append(unresolved, path)
			continue
		}
		resolved = append(resolved, dep)
	}

	return resolved, unresolved
}

// Walk performs a depth-first traversal from start, invoking visit once per
// node in preorder. The caller owns the visited set (keyed by path) so one
// set can span several walks. Nodes are marked visited before their
// dependencies are pushed: re-encountering an in-progress node is a no-op,
// which makes cycles and diamond dependencies terminate.
//
// visit returns false to stop descending below a node.
func (r *DependencyResolver) Walk(start *entities.Node, visited map[string]bool, visit func(node *entities.Node) bool) {
	startID, ok := r.graph.IDForPath(start.Path)
	if !ok {
		return
	}

	stack := []int{startID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := r.graph.NodeByID(id)
		if visited[node.Path] {
			continue
		}
		visited[node.Path] = true

		if !visit(node) {
			continue
		}

		// Push in reverse so dependencies pop in declaration order.
		adj := r.graph.Adjacency(id)
		for i := len(adj) - 1; i >= 0; i-- {
			stack = append(stack, adj[i])
		}
	}
}

// CollectLeafInputs walks from start and returns the raw data source leaves
// reachable from it, in traversal order.
//
// A node counts as a leaf when it has no resolvable dependencies. A node
// whose dependency paths all fail to resolve is treated the same as one that
// declares none.
func (r *DependencyResolver) CollectLeafInputs(start *entities.Node, visited map[string]bool) []*entities.Node {
	var leaves []*entities.Node

	r.Walk(start, visited, func(node *entities.Node) bool {
		id, _ := r.graph.IDForPath(node.Path)
		if len(r.graph.Adjacency(id)) == 0 {
			if node.Kind == values.KindInput {
				leaves = append(leaves, node)
			}
			return false
		}
		return true
	})

	return leaves
}
