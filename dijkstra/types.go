// Package dijkstra defines core types and configuration options
// for Dijkstra's shortest-path algorithm on the zone graph.
//
// Options:
//
//	– Source:           ID of the starting zone (must be non-empty and present in the graph).
//	– ReturnPath:       if true, return the predecessor map for path reconstruction.
//	– MaxDistance:      optional cap on distances to explore; zones beyond this are skipped.
//	– InfEdgeThreshold: links with weight >= this threshold are treated as closed roads.
//
// Errors (sentinel):
//
//	– ErrEmptySource     if the provided origin/destination ID is empty.
//	– ErrNilGraph        if the provided graph pointer is nil.
//	– ErrVertexNotFound  if the origin or destination does not exist in the graph.
//	– ErrBadMaxDistance  if MaxDistance < 0 (panics in the option constructor).
//	– ErrBadInfThreshold if InfEdgeThreshold <= 0 (panics in the option constructor).
package dijkstra

import (
	"errors"
	"math"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrEmptySource indicates that the provided source (or destination) ID is empty.
	ErrEmptySource = errors.New("dijkstra: source vertex ID is empty")

	// ErrNilGraph indicates that a nil *core.Graph was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates that the origin or destination zone does not
	// exist in the graph. It is distinct from an unreachable destination, which
	// is reported as an empty Path with a nil error.
	ErrVertexNotFound = errors.New("dijkstra: vertex not found in graph")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates that InfEdgeThreshold was set to zero or negative,
	// which would treat all links (including zero-weight ones) as closed.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")
)

// Options configures the behavior of the Dijkstra algorithm.
//
// Source           – starting zone ID.
// ReturnPath       – if true, return the predecessor map; otherwise prev map is nil.
// MaxDistance      – zones whose distance would exceed this value are not explored.
//
//	Must be ≥ 0. Default is +Inf (no cap).
//
// InfEdgeThreshold – treat links with weight ≥ this threshold as impassable.
//
//	Must be > 0. Default is +Inf (no closed roads).
type Options struct {
	Source           string  // The ID of the source zone
	ReturnPath       bool    // Whether to return the predecessor map
	MaxDistance      float64 // Maximum distance to explore
	InfEdgeThreshold float64 // Weight threshold above which links are non-traversable
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting zone ID. Required by Dijkstra; ShortestPath
// overrides it with its origin argument.
func Source(id string) Option {
	return func(o *Options) {
		o.Source = id
	}
}

// WithReturnPath enables generation of the predecessor map in the result.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithMaxDistance sets a maximum distance threshold.
// Must pass a non-negative value; negative values panic with ErrBadMaxDistance.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		if max < 0 || math.IsNaN(max) {
			// Invalid configuration is a programming error; fail early.
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold marks links with weight ≥ threshold as closed.
// Must pass a positive value; zero or negative values panic with ErrBadInfThreshold.
func WithInfEdgeThreshold(threshold float64) Option {
	return func(o *Options) {
		if threshold <= 0 || math.IsNaN(threshold) {
			panic(ErrBadInfThreshold.Error())
		}
		o.InfEdgeThreshold = threshold
	}
}

// DefaultOptions returns an Options struct initialized with defaults
// for the given source zone ID.
//
// Defaults:
//   - ReturnPath:       false.
//   - MaxDistance:      +Inf (explore all reachable).
//   - InfEdgeThreshold: +Inf (no closed roads).
func DefaultOptions(source string) Options {
	return Options{
		Source:           source,
		ReturnPath:       false,
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
	}
}

// Path is the result of a point-to-point query.
//
// Zones lists the route from origin to destination inclusive. It is empty
// when the destination cannot be reached; Cost is then 0.
type Path struct {
	Zones []string
	Cost  float64
}

// Found reports whether the path reaches its destination.
func (p Path) Found() bool { return len(p.Zones) > 0 }

// Hops returns the number of links on the path.
func (p Path) Hops() int {
	if len(p.Zones) == 0 {
		return 0
	}

	return len(p.Zones) - 1
}
