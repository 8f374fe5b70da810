package distribution

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by Tree operations.
var (
	ErrEmptyKey         = errors.New("distribution: node key is empty")
	ErrNodeNotFound     = errors.New("distribution: node not found")
	ErrDuplicateKey     = errors.New("distribution: duplicate node key")
	ErrNegativeQuantity = errors.New("distribution: quantity must be non-negative")
	ErrInvalidWeight    = errors.New("distribution: weight must be finite and non-negative")
)

// Node is a read-only view of a tree node.
type Node struct {
	Key      string
	Label    string
	Quantity int64
	Depth    int      // root is 0
	Children []string // child keys in insertion order
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return len(n.Children) == 0 }

type node struct {
	key      string
	label    string
	quantity int64
	depth    int
	children []int
}

// Tree is a distribution hierarchy. Nodes are stored in a slice and refer to
// their children by index.
type Tree struct {
	nodes []node
	index map[string]int
	total int64
}

// New returns a tree holding only the root, which is usually the
// distribution center. An empty key is replaced by the label.
func New(label, key string) *Tree {
	if key == "" {
		key = label
	}

	return &Tree{
		nodes: []node{{key: key, label: label}},
		index: map[string]int{key: 0},
	}
}

// Root returns the root node.
func (t *Tree) Root() Node { return t.view(0) }

// AddChild appends a child under parentKey. Keys are unique across the tree.
func (t *Tree) AddChild(parentKey, label, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	p, ok := t.index[parentKey]
	if !ok {
		return fmt.Errorf("%w: parent %q", ErrNodeNotFound, parentKey)
	}
	if _, dup := t.index[key]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}

	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{key: key, label: label, depth: t.nodes[p].depth + 1})
	t.nodes[p].children = append(t.nodes[p].children, idx)
	t.index[key] = idx

	return nil
}

// Node returns the node with the given key.
func (t *Tree) Node(key string) (Node, bool) {
	idx, ok := t.index[key]
	if !ok {
		return Node{}, false
	}

	return t.view(idx), true
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Total returns the quantity of the last distribution.
func (t *Tree) Total() int64 { return t.total }

// Height returns the number of links on the longest root-to-leaf path.
// A tree with only the root has height 0.
func (t *Tree) Height() int {
	h := 0
	for _, n := range t.nodes {
		if n.depth > h {
			h = n.depth
		}
	}

	return h
}

// Leaves returns the nodes without children in depth-first order.
func (t *Tree) Leaves() []Node {
	var out []Node
	t.walk(0, func(idx int) {
		if len(t.nodes[idx].children) == 0 {
			out = append(out, t.view(idx))
		}
	})

	return out
}

// TotalAssignedToLeaves sums the quantities held by the leaves. After any
// distribution it equals the distributed total.
func (t *Tree) TotalAssignedToLeaves() int64 {
	var sum int64
	t.walk(0, func(idx int) {
		if len(t.nodes[idx].children) == 0 {
			sum += t.nodes[idx].quantity
		}
	})

	return sum
}

// DistributeEven assigns total to the root and splits evenly at every level.
func (t *Tree) DistributeEven(total int64) error {
	if total < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeQuantity, total)
	}
	t.assign(total, func(int) float64 { return 0 })

	return nil
}

// DistributeWeighted assigns total to the root and splits proportionally to
// weights, keyed by node key. Keys missing from weights weigh 0.
func (t *Tree) DistributeWeighted(total int64, weights map[string]float64) error {
	if total < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeQuantity, total)
	}
	for k, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %q=%v", ErrInvalidWeight, k, w)
		}
	}
	t.assign(total, func(idx int) float64 { return weights[t.nodes[idx].key] })

	return nil
}

// assign resets every quantity and pushes total down from the root.
func (t *Tree) assign(total int64, weight func(idx int) float64) {
	for i := range t.nodes {
		t.nodes[i].quantity = 0
	}
	t.total = total
	t.nodes[0].quantity = total
	t.walk(0, func(idx int) {
		if kids := t.nodes[idx].children; len(kids) > 0 {
			t.split(t.nodes[idx].quantity, kids, weight)
		}
	})
}

// split divides qty among kids. walk visits parents before children, so
// every child is assigned before its own split runs.
//
// When the weight sum overflows, weights are scaled by the largest sibling
// weight. Shares are clamped to what is left of qty, so the remainder is
// never negative.
func (t *Tree) split(qty int64, kids []int, weight func(idx int) float64) {
	var sum, top float64
	last := -1
	for i, k := range kids {
		if w := weight(k); w > 0 {
			sum += w
			last = i
			if w > top {
				top = w
			}
		}
	}
	scale := 1.0
	if math.IsInf(sum, 1) {
		scale = top
		sum = 0
		for _, k := range kids {
			if w := weight(k); w > 0 {
				sum += w / scale
			}
		}
	}

	var given int64
	if sum == 0 {
		share := qty / int64(len(kids))
		for _, k := range kids {
			t.nodes[k].quantity = share
			given += share
		}
		last = len(kids) - 1
	} else {
		for _, k := range kids {
			var share int64
			if w := weight(k); w > 0 {
				share = shareOf(qty, w/scale, sum)
			}
			if left := qty - given; share > left {
				share = left
			}
			t.nodes[k].quantity = share
			given += share
		}
	}
	t.nodes[kids[last]].quantity += qty - given
}

// shareOf returns floor(qty × w / sum) within [0, qty].
func shareOf(qty int64, w, sum float64) int64 {
	f := float64(qty) * w
	if math.IsInf(f, 1) {
		f = float64(qty) * (w / sum)
	} else {
		f /= sum
	}
	f = math.Floor(f)
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= float64(qty):
		return qty
	default:
		return int64(f)
	}
}

// walk visits nodes depth-first, parents before children.
func (t *Tree) walk(idx int, visit func(idx int)) {
	visit(idx)
	for _, c := range t.nodes[idx].children {
		t.walk(c, visit)
	}
}

func (t *Tree) view(idx int) Node {
	n := t.nodes[idx]
	kids := make([]string, len(n.children))
	for i, c := range n.children {
		kids[i] = t.nodes[c].key
	}

	return Node{Key: n.key, Label: n.label, Quantity: n.quantity, Depth: n.depth, Children: kids}
}
