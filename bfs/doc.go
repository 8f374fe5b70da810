// Package bfs walks a core.Graph breadth-first from a starting zone,
// following links in their direction and ignoring weights.
//
// The walk yields the order zones were reached, each zone's hop count from
// the start, and the parent link that discovered it. Reachable is the short
// form used to find which zones a depot can serve at all before routing.
//
// Options:
//
//   - WithContext(ctx):        stop when ctx is cancelled.
//   - WithMaxDepth(d):         do not go beyond d hops (d > 0); 0 means no limit.
//   - WithFilterNeighbor(fn):  skip links for which fn(from, to) is false.
//   - WithOnVisit(fn):         called per visited zone; an error aborts the walk.
//
// Neighbors are expanded in link insertion order, so results are
// reproducible for a given graph. Time O(V + E), memory O(V).
package bfs
