// Package relief is a routing and resource-coordination engine for
// emergency response.
//
// The building blocks live in subpackages:
//
//	core/         directed weighted graph of zones and transport links
//	dijkstra/     minimum-cost routes between zones
//	bfs/          hop-ordered reachability from a depot
//	pqueue/       array-backed priority queue with pluggable ordering
//	evacuation/   urgency-ordered evacuation scheduling and progress tracking
//	distribution/ hierarchical supply splitting with exact remainders
//
// and the application around them:
//
//	scenario/      YAML zones, routes, supplies and teams
//	coordinator/   thread-safe composition rebuilt on every scenario change
//	api/           HTTP JSON endpoints (gorilla/mux) and Prometheus metrics
//	config/        viper configuration, RELIEF_* environment overrides
//	observability/ zap logger with optional rotating file sink
//	cmd/relief/    cobra CLI: serve, route, evacuate, distribute
//
// Quick start:
//
//	g := core.NewGraph()
//	_ = g.AddNode("A")
//	_ = g.AddNode("B")
//	_ = g.AddEdge("A", "B", 5)
//	p, _ := dijkstra.ShortestPath(g, "A", "B") // p.Zones == [A B], p.Cost == 5
package relief
