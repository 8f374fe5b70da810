package pqueue

import (
	"errors"
	"sort"
)

// ErrEmptyQueue is returned by ExtractMin, PeekMin and PeekPriority when the
// queue holds no entries.
var ErrEmptyQueue = errors.New("pqueue: queue is empty")

// Less reports whether priority a must leave the queue before priority b.
// It must be a strict weak ordering.
type Less func(a, b float64) bool

// entry is one heap slot.
type entry[T any] struct {
	item     T
	priority float64
	seq      uint64 // insertion sequence, tiebreak for equal priorities
}

// Queue is a binary-heap priority queue ordered by a Less comparator.
// The zero value is not usable; construct with New, NewMin or NewMax.
type Queue[T any] struct {
	less Less
	heap []entry[T]
	seq  uint64
}

// New returns an empty queue ordered by less.
// Panics if less is nil.
func New[T any](less Less) *Queue[T] {
	if less == nil {
		panic("pqueue: nil comparator")
	}

	return &Queue[T]{less: less}
}

// NewMin returns a queue that extracts the smallest priority first.
func NewMin[T any]() *Queue[T] {
	return New[T](func(a, b float64) bool { return a < b })
}

// NewMax returns a queue that extracts the largest priority first.
func NewMax[T any]() *Queue[T] {
	return New[T](func(a, b float64) bool { return a > b })
}

// Insert adds item with the given priority. Duplicates are kept.
// Complexity: O(log n).
func (q *Queue[T]) Insert(item T, priority float64) {
	q.seq++
	q.heap = append(q.heap, entry[T]{item: item, priority: priority, seq: q.seq})
	q.up(len(q.heap) - 1)
}

// ExtractMin removes and returns the entry that comes first under the
// queue's ordering (the smallest priority for NewMin).
// Complexity: O(log n).
func (q *Queue[T]) ExtractMin() (T, error) {
	var zero T
	n := len(q.heap)
	if n == 0 {
		return zero, ErrEmptyQueue
	}

	top := q.heap[0]
	last := n - 1
	q.heap[0] = q.heap[last]
	q.heap[last] = entry[T]{} // release references held by T
	q.heap = q.heap[:last]
	if last > 0 {
		q.down(0)
	}

	return top.item, nil
}

// PeekMin returns the entry ExtractMin would return, without removing it.
// Complexity: O(1).
func (q *Queue[T]) PeekMin() (T, error) {
	if len(q.heap) == 0 {
		var zero T
		return zero, ErrEmptyQueue
	}

	return q.heap[0].item, nil
}

// PeekPriority returns the priority of the first entry.
func (q *Queue[T]) PeekPriority() (float64, error) {
	if len(q.heap) == 0 {
		return 0, ErrEmptyQueue
	}

	return q.heap[0].priority, nil
}

// Len returns the number of queued entries.
func (q *Queue[T]) Len() int { return len(q.heap) }

// IsEmpty reports whether the queue has no entries.
func (q *Queue[T]) IsEmpty() bool { return len(q.heap) == 0 }

// Clear drops every entry. The sequence counter keeps running so FIFO
// ordering stays consistent for later inserts.
func (q *Queue[T]) Clear() { q.heap = nil }

// Items returns the queued items in extraction order without modifying
// the queue.
// Complexity: O(n log n).
func (q *Queue[T]) Items() []T {
	snap := make([]entry[T], len(q.heap))
	copy(snap, q.heap)
	sort.Slice(snap, func(i, j int) bool { return q.before(snap[i], snap[j]) })

	out := make([]T, len(snap))
	for i, e := range snap {
		out[i] = e.item
	}

	return out
}

// Remove deletes the first entry (in extraction order) for which match
// returns true and reports whether one was found.
// Complexity: O(n).
func (q *Queue[T]) Remove(match func(T) bool) bool {
	at := -1
	for i, e := range q.heap {
		if match(e.item) && (at < 0 || q.before(e, q.heap[at])) {
			at = i
		}
	}
	if at < 0 {
		return false
	}

	last := len(q.heap) - 1
	q.heap[at] = q.heap[last]
	q.heap[last] = entry[T]{}
	q.heap = q.heap[:last]
	if at < last {
		q.down(at)
		q.up(at)
	}

	return true
}

// before orders entries by the comparator, then by insertion sequence.
func (q *Queue[T]) before(a, b entry[T]) bool {
	if q.less(a.priority, b.priority) {
		return true
	}
	if q.less(b.priority, a.priority) {
		return false
	}

	return a.seq < b.seq
}

// up restores the heap property from index i towards the root.
func (q *Queue[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.before(q.heap[i], q.heap[parent]) {
			return
		}
		q.heap[i], q.heap[parent] = q.heap[parent], q.heap[i]
		i = parent
	}
}

// down restores the heap property from index i towards the leaves.
func (q *Queue[T]) down(i int) {
	n := len(q.heap)
	for {
		first := i
		left, right := 2*i+1, 2*i+2
		if left < n && q.before(q.heap[left], q.heap[first]) {
			first = left
		}
		if right < n && q.before(q.heap[right], q.heap[first]) {
			first = right
		}
		if first == i {
			return
		}
		q.heap[i], q.heap[first] = q.heap[first], q.heap[i]
		i = first
	}
}
