// Package dijkstra implements Dijkstra's shortest-path algorithm on the zone graph.
//
// Dijkstra computes the minimum-cost path from a single source zone to
// other reachable zones in a graph with non-negative link weights.
// It processes zones in order of increasing distance using a min-heap,
// relaxing links and updating distances accordingly.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E); O(E) worst-case heap entries under "lazy decrease-key".
//
// Notes on implementation choices:
//
//   - Weights are not validated. Non-negative weights are the caller's contract;
//     with negative weights the results are unspecified.
//   - A point-to-point search stops when the destination is popped from the heap,
//     not when it is first discovered, so the reported cost is final.
//   - Any link with weight ≥ InfEdgeThreshold is an impassable "closed road".
//   - Heap ties are broken by push order, which makes equal-cost results
//     reproducible for a fixed graph but not meaningful across equivalent paths.
package dijkstra

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/relief/core"
)

// Dijkstra computes shortest distances from Options.Source to every zone in g.
//
// Returns:
//
//   - dist: map from zone ID to minimum distance (+Inf if unreachable).
//   - prev: predecessor map if ReturnPath=true (nil otherwise).
//     prev[v] == u means the shortest path to v goes through u;
//     prev[v] == "" for the source and for unreachable zones.
//   - err:  ErrEmptySource, ErrNilGraph or ErrVertexNotFound.
func Dijkstra(g *core.Graph, opts ...Option) (map[string]float64, map[string]string, error) {
	cfg := DefaultOptions("")
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Source == "" {
		return nil, nil, ErrEmptySource
	}
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if !g.HasNode(cfg.Source) {
		return nil, nil, fmt.Errorf("%w: %q", ErrVertexNotFound, cfg.Source)
	}

	r := newRunner(g, cfg, "")
	if err := r.process(); err != nil {
		return nil, nil, err
	}

	if !cfg.ReturnPath {
		return r.dist, nil, nil
	}

	return r.dist, r.prev, nil
}

// ShortestPath returns the minimum-cost route from origin to dest.
//
// Result contract:
//
//   - origin == dest:   Path{Zones: [origin], Cost: 0}.
//   - dest unreachable: Path{} (empty Zones) and a nil error.
//   - unknown origin or dest: ErrVertexNotFound, so callers can tell a bad
//     request apart from a valid "no route" answer.
//
// MaxDistance and InfEdgeThreshold options apply; Source and ReturnPath are
// ignored.
func ShortestPath(g *core.Graph, origin, dest string, opts ...Option) (Path, error) {
	cfg := DefaultOptions("")
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Source = origin

	if origin == "" || dest == "" {
		return Path{}, ErrEmptySource
	}
	if g == nil {
		return Path{}, ErrNilGraph
	}
	if !g.HasNode(origin) {
		return Path{}, fmt.Errorf("%w: origin %q", ErrVertexNotFound, origin)
	}
	if !g.HasNode(dest) {
		return Path{}, fmt.Errorf("%w: destination %q", ErrVertexNotFound, dest)
	}
	if origin == dest {
		return Path{Zones: []string{origin}, Cost: 0}, nil
	}

	r := newRunner(g, cfg, dest)
	if err := r.process(); err != nil {
		return Path{}, err
	}

	return r.path(origin, dest), nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *core.Graph        // The input graph; read-only within Dijkstra.
	options Options            // Configuration options (Source, thresholds, etc.).
	target  string             // Stop once this zone is finalized; "" explores everything.
	dist    map[string]float64 // Zone ID → current best distance from Source.
	prev    map[string]string  // Zone ID → predecessor on the shortest path.
	visited map[string]bool    // Tracks if a zone's distance is finalized.
	pq      nodePQ             // Min-heap of *nodeItem for the lazy priority queue.
	seq     uint64             // Push counter used as heap tiebreak.
}

// newRunner sets dist[v] = +Inf for every zone, dist[source] = 0, and seeds
// the heap with the source.
func newRunner(g *core.Graph, cfg Options, target string) *runner {
	nodes := g.Nodes()
	r := &runner{
		g:       g,
		options: cfg,
		target:  target,
		dist:    make(map[string]float64, len(nodes)),
		prev:    make(map[string]string, len(nodes)),
		visited: make(map[string]bool, len(nodes)),
		pq:      make(nodePQ, 0, len(nodes)),
	}
	for _, v := range nodes {
		r.dist[v] = math.Inf(1)
		r.prev[v] = ""
	}
	r.dist[cfg.Source] = 0

	heap.Init(&r.pq)
	r.push(cfg.Source, 0)

	return r
}

// process repeatedly pops the closest unfinalized zone and relaxes its links.
//
// Loop termination conditions:
//
//   - The heap becomes empty (all reachable zones processed).
//   - The minimum distance in the heap exceeds MaxDistance.
//   - The target zone has been popped.
func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id

		// Skip stale heap entries.
		if r.visited[u] {
			continue
		}
		if item.dist > r.options.MaxDistance {
			break
		}
		r.visited[u] = true

		if u == r.target {
			break
		}
		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax examines each outgoing link of u and improves neighbor distances.
// Assumes r.dist[u] is final.
func (r *runner) relax(u string) error {
	neighbors, err := r.g.Neighbors(u)
	if err != nil {
		return fmt.Errorf("dijkstra: failed to get neighbors of %q: %w", u, err)
	}

	for _, nb := range neighbors {
		if nb.Weight >= r.options.InfEdgeThreshold {
			continue // closed road
		}
		newDist := r.dist[u] + nb.Weight
		if newDist > r.options.MaxDistance {
			continue
		}
		// Strictly better only; equal-cost alternatives keep the first predecessor.
		if newDist >= r.dist[nb.ID] {
			continue
		}
		r.dist[nb.ID] = newDist
		r.prev[nb.ID] = u
		r.push(nb.ID, newDist)
	}

	return nil
}

func (r *runner) push(id string, dist float64) {
	r.seq++
	heap.Push(&r.pq, &nodeItem{id: id, dist: dist, seq: r.seq})
}

// path walks the predecessor chain backward from dest. An unreached dest
// yields an empty Path.
func (r *runner) path(origin, dest string) Path {
	cost := r.dist[dest]
	if math.IsInf(cost, 1) || !r.visited[dest] {
		return Path{}
	}

	var rev []string
	for v := dest; v != ""; v = r.prev[v] {
		rev = append(rev, v)
		if v == origin {
			break
		}
	}
	if rev[len(rev)-1] != origin {
		return Path{}
	}

	zones := make([]string, len(rev))
	for i, v := range rev {
		zones[len(rev)-1-i] = v
	}

	return Path{Zones: zones, Cost: cost}
}

// nodeItem is a zone with its tentative distance from the source.
type nodeItem struct {
	id   string
	dist float64
	seq  uint64
}

// nodePQ is a min-heap of *nodeItem ordered by dist, then push order.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].seq < pq[j].seq
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push is called by heap.Push; x must be *nodeItem.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

// Pop is called by heap.Pop.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
