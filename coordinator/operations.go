package coordinator

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/relief/distribution"
	"github.com/katalvlaran/relief/evacuation"
	"github.com/katalvlaran/relief/scenario"
)

// Distribution split modes.
const (
	ModeEven     = "even"
	ModeWeighted = "weighted"
)

// Schedule queues an evacuation of zone using the zone's current priority.
// A negative headcount takes the zone's population.
func (c *Coordinator) Schedule(zone string, headcount int) (string, error) {
	z, ok := c.Zone(zone)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrZoneNotFound, zone)
	}
	if headcount < 0 {
		headcount = z.Population
	}

	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	return c.sched.Schedule(z.Name, z.Priority, headcount)
}

// ScheduleUrgent queues every zone whose priority reaches the configured
// threshold. Headcounts come from headcounts, falling back to the zone
// population. It returns the new evacuation IDs in zone order.
func (c *Coordinator) ScheduleUrgent(headcounts map[string]int) ([]string, error) {
	var urgent []ZoneView
	for _, z := range c.Zones() {
		if z.Priority >= c.evac.AutoScheduleThreshold {
			urgent = append(urgent, z)
		}
	}

	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	ids := make([]string, 0, len(urgent))
	for _, z := range urgent {
		n, ok := headcounts[z.Name]
		if !ok {
			n = z.Population
		}
		id, err := c.sched.Schedule(z.Name, z.Priority, n)
		if err != nil {
			return ids, fmt.Errorf("coordinator: scheduling %q: %w", z.Name, err)
		}
		ids = append(ids, id)
	}
	c.log.Info("urgent zones scheduled",
		zap.Int("count", len(ids)),
		zap.Int("threshold", c.evac.AutoScheduleThreshold),
	)

	return ids, nil
}

// NextEvacuation peeks at the most urgent pending evacuation.
func (c *Coordinator) NextEvacuation() (evacuation.Evacuation, error) {
	c.schedMu.RLock()
	defer c.schedMu.RUnlock()

	return c.sched.PeekNext()
}

// BeginNext starts the most urgent evacuation. An empty team takes the
// configured default team. A named team must be on the scenario roster when
// the scenario declares one.
func (c *Coordinator) BeginNext(team string) (evacuation.Evacuation, error) {
	if team == "" {
		team = c.evac.DefaultTeam
	} else if err := c.checkTeam(team); err != nil {
		return evacuation.Evacuation{}, err
	}

	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	return c.sched.BeginNext(team)
}

// UpdateProgress records people evacuated so far.
func (c *Coordinator) UpdateProgress(id string, evacuated int) (evacuation.Evacuation, error) {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()

	return c.sched.UpdateProgress(id, evacuated)
}

// Evacuation returns one evacuation by ID.
func (c *Coordinator) Evacuation(id string) (evacuation.Evacuation, bool) {
	c.schedMu.RLock()
	defer c.schedMu.RUnlock()

	return c.sched.Get(id)
}

// Evacuations lists every evacuation in scheduling order.
func (c *Coordinator) Evacuations() []evacuation.Evacuation {
	c.schedMu.RLock()
	defer c.schedMu.RUnlock()

	return c.sched.List()
}

// Statistics aggregates evacuation progress.
func (c *Coordinator) Statistics() evacuation.Stats {
	c.schedMu.RLock()
	defer c.schedMu.RUnlock()

	return c.sched.Statistics()
}

// EvacuationReport renders the scheduler summary.
func (c *Coordinator) EvacuationReport() string {
	c.schedMu.RLock()
	defer c.schedMu.RUnlock()

	return c.sched.Report()
}

// Distribute splits quantity from the distribution center to every zone.
// Weighted mode uses zone priorities as weights. The resulting tree becomes
// the current one and is returned.
func (c *Coordinator) Distribute(quantity int64, weighted bool) (*distribution.Tree, error) {
	return c.distribute("", quantity, weighted)
}

// DistributeResource reserves quantity units of a resource and distributes
// them like Distribute. Stock is left untouched when either step fails.
func (c *Coordinator) DistributeResource(resource string, quantity int64, weighted bool) (*distribution.Tree, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: %d", distribution.ErrNegativeQuantity, quantity)
	}
	if quantity > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", scenario.ErrInsufficientStock, quantity)
	}
	if _, err := c.Reserve(resource, int(quantity)); err != nil {
		return nil, err
	}
	tree, err := c.distribute(resource, quantity, weighted)
	if err != nil {
		if _, rerr := c.Release(resource, int(quantity)); rerr != nil {
			c.log.Error("failed to return reserved stock", zap.String("resource", resource), zap.Error(rerr))
		}
		return nil, err
	}

	return tree, nil
}

func (c *Coordinator) distribute(resource string, quantity int64, weighted bool) (*distribution.Tree, error) {
	zones := c.Zones()

	tree := distribution.New(c.dist.CenterLabel, c.dist.CenterKey)
	weights := make(map[string]float64, len(zones))
	for _, z := range zones {
		key := Slug(z.Name)
		if err := tree.AddChild(c.dist.CenterKey, z.Name, key); err != nil {
			return nil, fmt.Errorf("coordinator: zone %q: %w", z.Name, err)
		}
		weights[key] = float64(z.Priority)
	}

	mode := ModeEven
	var err error
	if weighted {
		mode = ModeWeighted
		err = tree.DistributeWeighted(quantity, weights)
	} else {
		err = tree.DistributeEven(quantity)
	}
	if err != nil {
		return nil, err
	}

	c.treeMu.Lock()
	c.tree = tree
	c.treeMu.Unlock()

	c.log.Info("supplies distributed",
		zap.String("mode", mode),
		zap.String("resource", resource),
		zap.Int64("quantity", quantity),
		zap.Int("zones", len(zones)),
	)
	if c.metrics != nil {
		c.metrics.ObserveDistribution(mode, quantity)
	}

	return tree, nil
}

// Distribution returns the tree of the last successful Distribute call.
func (c *Coordinator) Distribution() (*distribution.Tree, bool) {
	c.treeMu.RLock()
	defer c.treeMu.RUnlock()

	return c.tree, c.tree != nil
}
