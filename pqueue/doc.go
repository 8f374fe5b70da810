// Package pqueue provides a generic, array-backed binary-heap priority queue.
//
// Overview:
//
//   - Queue[T] stores (item, priority) pairs in a growable slice; parent and
//     child positions are computed from indices (parent (i-1)/2, children
//     2i+1 and 2i+2), so there are no pointer-linked nodes.
//   - The ordering is a comparator over priorities: NewMin extracts the
//     smallest priority first, NewMax the largest, New accepts any strict
//     "before" relation.
//   - Equal priorities leave in insertion order (FIFO): every entry carries a
//     monotonically increasing sequence number used as the tiebreak.
//
// Complexity:
//
//   - Insert, ExtractMin: O(log n)
//   - PeekMin, Len, IsEmpty: O(1)
//   - Items: O(n log n) (sorted snapshot)
//
// Errors:
//
//   - ErrEmptyQueue: ExtractMin/PeekMin/PeekPriority on an empty queue.
//     The queue never returns a silent zero value for "empty".
//
// Thread safety:
//
//   - Queue is not safe for concurrent use; guard it externally.
package pqueue
