// Package core defines the zone graph used by the routing engine: Node, Edge,
// Neighbor and Graph, plus the sentinel errors returned by graph mutations.
//
// This file declares the types, sentinel errors, and the NewGraph constructor.
//
// Errors:
//
//	ErrEmptyNodeID  - node ID is the empty string.
//	ErrNodeNotFound - an edge endpoint or queried node does not exist.
package core

import "errors"

// Sentinel errors for core graph operations.
var (
	// ErrEmptyNodeID indicates that the provided node ID is empty.
	ErrEmptyNodeID = errors.New("core: node ID is empty")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	// AddEdge returns it (wrapped with the missing ID) instead of silently
	// discarding the edge; the graph is left untouched in that case.
	ErrNodeNotFound = errors.New("core: node not found")
)

// Node is a zone in the transport graph.
//
// neighbors maps destination ID → weight of the most recently inserted edge
// towards that destination; order keeps first-insertion order of destinations
// so iteration is reproducible.
type Node struct {
	// ID is the unique identifier for this Node.
	ID string

	neighbors map[string]float64
	order     []string
}

// Edge is one inserted transport link From→To with a travel cost.
// Edges are always directed.
type Edge struct {
	// From is the origin node ID.
	From string

	// To is the destination node ID.
	To string

	// Weight is the travel cost. Shortest-path searches require Weight ≥ 0;
	// the graph itself does not validate it.
	Weight float64
}

// Neighbor is an outgoing link as seen from its origin node.
type Neighbor struct {
	ID     string
	Weight float64
}

// Graph is the in-memory zone graph.
//
// It keeps nodes in insertion order (for deterministic enumeration) and the
// flat list of every inserted edge, duplicates included, for collaborators
// that render or export the network.
//
// Graph performs no locking. Callers that share one instance between
// goroutines must serialize access themselves (see package coordinator).
type Graph struct {
	nodes map[string]*Node // node ID → Node
	order []string         // node IDs in insertion order
	edges []Edge           // every AddEdge that succeeded, in call order
}

// NewGraph creates an empty Graph.
// Complexity: O(1)
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}
