// File: methods_nodes.go
// Role: Node lifecycle & queries.
//
// Determinism:
//   - Nodes() returns IDs in insertion order.
//   - Neighbors() returns destinations in first-insertion order.
package core

// AddNode registers a zone if missing (idempotent).
//
// Implementation:
//   - Stage 1: Validate non-empty ID (ErrEmptyNodeID).
//   - Stage 2: If the node already exists, return without touching it, so
//     its neighbor mapping survives duplicate registrations.
//   - Stage 3: Allocate the node and append its ID to the insertion order.
//
// Complexity:
//   - Time O(1) amortized, Space O(1) amortized.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	if _, exists := g.nodes[id]; exists {
		return nil // no-op for existing node
	}

	g.nodes[id] = &Node{ID: id, neighbors: make(map[string]float64)}
	g.order = append(g.order, id)

	return nil
}

// HasNode reports whether the node ID exists (empty ID ⇒ false).
// Complexity: O(1).
func (g *Graph) HasNode(id string) bool {
	if id == "" {
		return false
	}
	_, ok := g.nodes[id]

	return ok
}

// Node returns a copy of the node registered under id.
// The returned value shares nothing with the graph.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}

	cp := Node{
		ID:        n.ID,
		neighbors: make(map[string]float64, len(n.neighbors)),
		order:     make([]string, len(n.order)),
	}
	copy(cp.order, n.order)
	for k, w := range n.neighbors {
		cp.neighbors[k] = w
	}

	return cp, true
}

// Nodes returns all node IDs in insertion order.
// Complexity: O(V).
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)

	return out
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// Reset removes every node and edge. The external layer uses it to rebuild
// the graph from an authoritative zone/route source instead of diffing.
func (g *Graph) Reset() {
	g.nodes = make(map[string]*Node)
	g.order = nil
	g.edges = nil
}

// Neighbors returns the outgoing links of id with their current weights.
//
// Errors:
//   - ErrEmptyNodeID: if id == "".
//   - ErrNodeNotFound: if the node does not exist.
//
// Complexity: O(d) where d is the out-degree.
func (g *Graph) Neighbors(id string) ([]Neighbor, error) {
	if id == "" {
		return nil, ErrEmptyNodeID
	}
	n, ok := g.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}

	return n.Neighbors(), nil
}

// Neighbors lists this node's outgoing links in first-insertion order.
func (n Node) Neighbors() []Neighbor {
	out := make([]Neighbor, 0, len(n.order))
	for _, to := range n.order {
		out = append(out, Neighbor{ID: to, Weight: n.neighbors[to]})
	}

	return out
}

// Weight returns the weight of the link to dest, if any.
func (n Node) Weight(dest string) (float64, bool) {
	w, ok := n.neighbors[dest]

	return w, ok
}

// Degree returns the number of distinct destinations reachable in one hop.
func (n Node) Degree() int { return len(n.order) }
