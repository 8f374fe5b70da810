// File: methods_edges.go
// Role: Edge insertion & queries: AddEdge/HasEdge/Edges/EdgeCount.
// Determinism:
//   - Edges() returns edges in insertion order.

package core

import "fmt"

// AddEdge inserts the directed link from→to with the given weight.
//
// Steps:
//  1. Validate IDs (ErrEmptyNodeID).
//  2. Look up both endpoints; if either is missing return ErrNodeNotFound
//     wrapped with the missing ID. Nothing is modified on failure.
//  3. Append the edge to the flat edge list.
//  4. Store the weight in the origin's neighbor mapping; a repeated
//     (from, to) pair overwrites the weight but keeps its iteration position.
//
// The weight is not validated. Shortest-path searches require it to be
// non-negative; that is the caller's contract.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, weight float64) error {
	if from == "" || to == "" {
		return ErrEmptyNodeID
	}
	origin, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: origin %q", ErrNodeNotFound, from)
	}
	if _, ok = g.nodes[to]; !ok {
		return fmt.Errorf("%w: destination %q", ErrNodeNotFound, to)
	}

	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	if _, seen := origin.neighbors[to]; !seen {
		origin.order = append(origin.order, to)
	}
	origin.neighbors[to] = weight

	return nil
}

// HasEdge reports whether a link from→to exists.
// Complexity: O(1).
func (g *Graph) HasEdge(from, to string) bool {
	n, ok := g.nodes[from]
	if !ok {
		return false
	}
	_, ok = n.neighbors[to]

	return ok
}

// Edges returns a copy of every inserted edge in insertion order,
// including superseded duplicates of the same (from, to) pair.
// Complexity: O(E).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// EdgeCount returns the number of inserted edges (duplicates included).
func (g *Graph) EdgeCount() int { return len(g.edges) }
