// Package dijkstra computes minimum-cost transport routes between zones of a
// core.Graph using Dijkstra's algorithm.
//
// Overview:
//
//   - ShortestPath returns the cheapest origin→destination route as a Path
//     (ordered zone IDs plus total cost).
//   - Dijkstra returns single-source distances to every zone, with an
//     optional predecessor map for path reconstruction.
//   - Both rely on a binary min-heap frontier keyed by tentative distance.
//
// Result semantics for ShortestPath:
//
//   - Unknown origin or destination: ErrVertexNotFound (a bad request).
//   - Destination unreachable: empty Path, nil error (a valid "no route").
//   - Origin equals destination: one-zone Path with cost 0.
//
// Options:
//
//   - Source(string):               required by Dijkstra.
//   - WithReturnPath():             Dijkstra returns the predecessor map.
//   - WithMaxDistance(float64):     do not explore beyond this cost.
//   - WithInfEdgeThreshold(float64): links with weight ≥ threshold are closed roads.
//
// Caller contract:
//
//   - Link weights must be non-negative. The package does not check this;
//     with negative weights the computed routes are unspecified.
//
// Performance and complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
//
// Thread safety:
//
//   - Searches only read the graph. Concurrent searches on the same graph are
//     safe as long as nobody mutates it meanwhile; synchronize externally.
package dijkstra
