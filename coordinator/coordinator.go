// Package coordinator composes the routing graph, the evacuation scheduler
// and supply distribution around a loaded scenario.
//
// Each component has its own lock: readers of one (route queries, peeks,
// statistics) never wait on writers of another. The graph is rebuilt from
// the scenario on every change to zones or routes.
package coordinator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/katalvlaran/relief/bfs"
	"github.com/katalvlaran/relief/config"
	"github.com/katalvlaran/relief/core"
	"github.com/katalvlaran/relief/dijkstra"
	"github.com/katalvlaran/relief/distribution"
	"github.com/katalvlaran/relief/evacuation"
	"github.com/katalvlaran/relief/metrics"
	"github.com/katalvlaran/relief/scenario"
)

// ErrZoneNotFound is returned for zone names absent from the scenario.
var ErrZoneNotFound = errors.New("coordinator: zone not found")

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithSchedulerOptions passes options through to the evacuation scheduler.
func WithSchedulerOptions(opts ...evacuation.Option) Option {
	return func(c *Coordinator) { c.schedOpts = append(c.schedOpts, opts...) }
}

// ZoneView is a zone with its display level.
type ZoneView struct {
	scenario.Zone
	Level evacuation.PriorityLevel `json:"level"`
}

// Coordinator is safe for concurrent use.
type Coordinator struct {
	evac config.EvacuationConfig
	dist config.DistributionConfig

	log       *zap.Logger
	metrics   *metrics.Metrics
	schedOpts []evacuation.Option

	graphMu sync.RWMutex
	scn     *scenario.Scenario
	graph   *core.Graph

	schedMu sync.RWMutex
	sched   *evacuation.Scheduler

	treeMu sync.RWMutex
	tree   *distribution.Tree
}

// New returns a Coordinator over an empty scenario.
func New(cfg *config.Config, opts ...Option) *Coordinator {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Coordinator{
		evac:  cfg.Evacuation,
		dist:  cfg.Distribution,
		log:   zap.NewNop(),
		scn:   &scenario.Scenario{},
		graph: core.NewGraph(),
	}
	for _, opt := range opts {
		opt(c)
	}

	so := []evacuation.Option{evacuation.WithLogger(c.log.Named("evacuation"))}
	if c.metrics != nil {
		so = append(so, evacuation.WithRecorder(c.metrics))
	}
	c.sched = evacuation.NewScheduler(append(so, c.schedOpts...)...)

	return c
}

// Load replaces the scenario and rebuilds the graph. The coordinator owns s
// afterwards: resource reservations update its stock.
func (c *Coordinator) Load(s *scenario.Scenario) error {
	if s == nil {
		s = &scenario.Scenario{}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := c.checkKeys(s); err != nil {
		return err
	}

	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	c.scn = s

	return c.syncLocked()
}

// Sync rebuilds the graph from the current scenario.
func (c *Coordinator) Sync() error {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()

	return c.syncLocked()
}

// syncLocked clears the graph, adds every zone, then every route. Route
// endpoints that are not declared zones are registered as nodes first.
func (c *Coordinator) syncLocked() error {
	c.graph.Reset()
	for _, z := range c.scn.Zones {
		if err := c.graph.AddNode(z.Name); err != nil {
			return fmt.Errorf("coordinator: adding zone %q: %w", z.Name, err)
		}
	}
	for _, r := range c.scn.Routes {
		for _, id := range []string{r.Origin, r.Destination} {
			if !c.graph.HasNode(id) {
				if err := c.graph.AddNode(id); err != nil {
					return fmt.Errorf("coordinator: adding route endpoint %q: %w", id, err)
				}
			}
		}
		if err := c.graph.AddEdge(r.Origin, r.Destination, r.Weight); err != nil {
			return fmt.Errorf("coordinator: adding route %s→%s: %w", r.Origin, r.Destination, err)
		}
	}

	c.log.Info("graph synchronized",
		zap.Int("zones", c.graph.NodeCount()),
		zap.Int("routes", c.graph.EdgeCount()),
	)
	if c.metrics != nil {
		c.metrics.ObserveGraph(c.graph.NodeCount(), c.graph.EdgeCount())
	}

	return nil
}

// AddZone registers a zone, replacing one with the same name.
func (c *Coordinator) AddZone(z scenario.Zone) error {
	if z.Status == "" {
		z.Status = scenario.StatusNormal
	}

	c.graphMu.Lock()
	defer c.graphMu.Unlock()

	next := *c.scn
	next.Zones = make([]scenario.Zone, 0, len(c.scn.Zones)+1)
	replaced := false
	for _, old := range c.scn.Zones {
		if old.Name == z.Name {
			next.Zones = append(next.Zones, z)
			replaced = true
			continue
		}
		next.Zones = append(next.Zones, old)
	}
	if !replaced {
		next.Zones = append(next.Zones, z)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := c.checkKeys(&next); err != nil {
		return err
	}
	c.scn = &next

	return c.syncLocked()
}

// AddRoute registers a directed route. A later route between the same
// zones replaces the earlier weight.
func (c *Coordinator) AddRoute(r scenario.Route) error {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()

	next := *c.scn
	next.Routes = append(append([]scenario.Route(nil), c.scn.Routes...), r)
	if err := next.Validate(); err != nil {
		return err
	}
	c.scn = &next

	return c.syncLocked()
}

// Zones returns every zone in declaration order.
func (c *Coordinator) Zones() []ZoneView {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	out := make([]ZoneView, 0, len(c.scn.Zones))
	for _, z := range c.scn.Zones {
		out = append(out, ZoneView{Zone: z, Level: evacuation.Level(z.Priority)})
	}

	return out
}

// Zone looks up a zone by name.
func (c *Coordinator) Zone(name string) (scenario.Zone, bool) {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	return c.scn.Zone(name)
}

// Graph returns a snapshot of the node and edge lists.
func (c *Coordinator) Graph() (nodes []string, edges []core.Edge) {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	return c.graph.Nodes(), c.graph.Edges()
}

// ShortestPath returns the cheapest route between two zones. An unreachable
// destination yields an empty Path and no error.
func (c *Coordinator) ShortestPath(from, to string, opts ...dijkstra.Option) (dijkstra.Path, error) {
	c.graphMu.RLock()
	p, err := dijkstra.ShortestPath(c.graph, from, to, opts...)
	c.graphMu.RUnlock()

	result := metrics.RouteFound
	switch {
	case err != nil:
		result = metrics.RouteError
		c.log.Warn("route query failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
	case !p.Found():
		result = metrics.RouteUnreachable
		c.log.Info("no route", zap.String("from", from), zap.String("to", to))
	default:
		c.log.Debug("route computed",
			zap.String("from", from),
			zap.String("to", to),
			zap.Strings("zones", p.Zones),
			zap.Float64("cost", p.Cost),
		)
	}
	if c.metrics != nil {
		c.metrics.ObserveRoute(result)
	}

	return p, err
}

// Reachable lists the zones reachable from origin by hop count.
func (c *Coordinator) Reachable(origin string) ([]string, error) {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	return bfs.Reachable(c.graph, origin)
}

// Isolated lists the zones that cannot be reached from depot.
func (c *Coordinator) Isolated(depot string) ([]string, error) {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	return bfs.Unreachable(c.graph, depot)
}

// Slug derives a distribution key from a zone name: lower case with spaces
// replaced by underscores.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
