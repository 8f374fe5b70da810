package bfs

import (
	"context"
	"fmt"

	"github.com/katalvlaran/relief/core"
)

// queueItem pairs a zone ID with its depth.
type queueItem struct {
	id    string
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph *core.Graph
	opts  Options
	ctx   context.Context
	queue []queueItem
	res   *Result
}

// BFS walks g from start. It returns ErrGraphNil, ErrStartNotFound or
// ErrOptionViolation for bad input, the context error on cancellation, or
// the wrapped error of an OnVisit hook.
func BFS(g *core.Graph, start string, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: %q", ErrStartNotFound, start)
	}

	n := g.NodeCount()
	w := &walker{
		graph: g,
		opts:  o,
		ctx:   o.Ctx,
		queue: make([]queueItem, 0, n),
		res: &Result{
			Order:  make([]string, 0, n),
			Depth:  make(map[string]int, n),
			Parent: make(map[string]string, n),
		},
	}
	w.enqueue(start, 0, "")

	return w.res, w.loop()
}

// Reachable returns every zone reachable from origin, origin first, in
// non-decreasing hop order.
func Reachable(g *core.Graph, origin string, opts ...Option) ([]string, error) {
	res, err := BFS(g, origin, opts...)
	if err != nil {
		return nil, err
	}

	return res.Order, nil
}

// Unreachable returns the zones of g that origin cannot reach, in
// registration order.
func Unreachable(g *core.Graph, origin string, opts ...Option) ([]string, error) {
	res, err := BFS(g, origin, opts...)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, id := range g.Nodes() {
		if !res.Reached(id) {
			out = append(out, id)
		}
	}

	return out, nil
}

func (w *walker) enqueue(id string, d int, parent string) {
	w.res.Depth[id] = d
	if parent != "" {
		w.res.Parent[id] = parent
	}
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %q: %w", item.id, err)
		}
		if err := w.expand(item); err != nil {
			return err
		}
	}

	return nil
}

// expand enqueues each unseen, allowed neighbor within MaxDepth.
func (w *walker) expand(item queueItem) error {
	next := item.depth + 1
	if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
		return nil
	}

	neighbors, err := w.graph.Neighbors(item.id)
	if err != nil {
		return fmt.Errorf("bfs: neighbors of %q: %w", item.id, err)
	}
	for _, nb := range neighbors {
		if w.res.Reached(nb.ID) || !w.opts.FilterNeighbor(item.id, nb.ID) {
			continue
		}
		w.enqueue(nb.ID, next, item.id)
	}

	return nil
}
