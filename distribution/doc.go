// Package distribution splits an integer quantity of supplies down a
// hierarchy that starts at a distribution center.
//
// A Tree is an arena of nodes addressed by unique keys. Every node holds an
// assigned quantity; distributing sets the root to the total and divides
// each node's quantity among its direct children, recursively.
//
// Splitting rules:
//
//   - DistributeEven: each child gets parent / n; the remainder goes to the
//     last child in insertion order.
//   - DistributeWeighted: each child gets floor(parent × w / Σw); the
//     remainder goes to the last child with positive weight. A sibling group
//     whose weights are all zero falls back to the even split.
//
// Either way the quantities of the leaves always sum to the total, and a
// new distribution replaces the previous one.
//
// A Tree is not safe for concurrent use.
package distribution
