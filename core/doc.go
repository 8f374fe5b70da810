// Package core provides the mutable, weighted, directed zone graph that the
// routing engine searches.
//
// The Graph G = (V,E) is deliberately small:
//
//   - Nodes are zones identified by a unique, non-empty string ID.
//   - Edges are directed transport links with a float64 travel cost.
//   - Each node stores neighbor→weight; inserting the same (from,to) pair again
//     overwrites the stored weight (the most recent insertion wins).
//   - The flat list of every inserted edge is kept for renderers and exports.
//   - Nodes(), Neighbors() and Edges() enumerate in insertion order.
//
// Lifecycle:
//
//	g := core.NewGraph()
//	_ = g.AddNode("A")
//	_ = g.AddNode("B")
//	_ = g.AddEdge("A", "B", 5)   // both endpoints must exist
//	_ = g.AddEdge("A", "Z", 1)   // returns ErrNodeNotFound, graph unchanged
//
// Nodes are never removed one by one. When the authoritative zone/route
// source changes, the owner calls Reset and rebuilds the graph from scratch.
//
// Core Methods:
//
//	AddNode(id string) error                          // O(1), idempotent
//	HasNode(id string) bool                           // O(1)
//	AddEdge(from, to string, weight float64) error    // O(1)
//	HasEdge(from, to string) bool                     // O(1)
//	Neighbors(id string) ([]Neighbor, error)          // O(d)
//	Nodes() []string / Edges() []Edge                 // O(V) / O(E)
//	Reset()                                           // O(1)
//
// Thread safety:
//
//   - Graph has no internal locking. Mutations and searches are synchronous
//     and bounded by graph size; callers sharing a Graph across goroutines
//     must serialize access (one mutex per instance, or RWMutex with
//     read-locked shortest-path queries).
//
// See also:
//
//   - dijkstra.ShortestPath: minimum-cost route between two zones.
//   - bfs.Reachable: hop-ordered reachability from a depot zone.
package core
