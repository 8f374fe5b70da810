package coordinator

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/relief/scenario"
)

var (
	// ErrResourceNotFound is returned for resource names absent from the scenario.
	ErrResourceNotFound = errors.New("coordinator: resource not found")

	// ErrTeamNotFound is returned when a named team is not on the scenario roster.
	ErrTeamNotFound = errors.New("coordinator: team not found")
)

// Stock is a resource with its units still available.
type Stock struct {
	scenario.Resource
	Available int `json:"available"`
}

func stockOf(r *scenario.Resource) Stock {
	return Stock{Resource: *r, Available: r.Available()}
}

// Resources returns the stock of every resource in declaration order.
func (c *Coordinator) Resources() []Stock {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	out := make([]Stock, 0, len(c.scn.Resources))
	for _, r := range c.scn.Resources {
		out = append(out, stockOf(r))
	}

	return out
}

// Reserve takes n units of a resource out of stock.
func (c *Coordinator) Reserve(name string, n int) (Stock, error) {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()

	r, ok := c.scn.Resource(name)
	if !ok {
		return Stock{}, fmt.Errorf("%w: %q", ErrResourceNotFound, name)
	}
	if err := r.Use(n); err != nil {
		return stockOf(r), err
	}
	c.log.Info("resource reserved",
		zap.String("resource", name),
		zap.Int("units", n),
		zap.Int("available", r.Available()),
	)

	return stockOf(r), nil
}

// Release returns n reserved units of a resource to stock.
func (c *Coordinator) Release(name string, n int) (Stock, error) {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()

	r, ok := c.scn.Resource(name)
	if !ok {
		return Stock{}, fmt.Errorf("%w: %q", ErrResourceNotFound, name)
	}
	if err := r.Release(n); err != nil {
		return stockOf(r), err
	}
	c.log.Info("resource released",
		zap.String("resource", name),
		zap.Int("units", n),
		zap.Int("available", r.Available()),
	)

	return stockOf(r), nil
}

// Teams returns the rescue teams of the scenario.
func (c *Coordinator) Teams() []scenario.Team {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	return append([]scenario.Team(nil), c.scn.Teams...)
}

// checkTeam accepts any team when the scenario declares none.
func (c *Coordinator) checkTeam(name string) error {
	c.graphMu.RLock()
	defer c.graphMu.RUnlock()

	if len(c.scn.Teams) == 0 {
		return nil
	}
	if _, ok := c.scn.Team(name); !ok {
		return fmt.Errorf("%w: %q", ErrTeamNotFound, name)
	}

	return nil
}

// checkKeys rejects zones whose distribution keys collide with each other
// or with the distribution center.
func (c *Coordinator) checkKeys(s *scenario.Scenario) error {
	owners := map[string]string{c.dist.CenterKey: c.dist.CenterLabel}
	for _, z := range s.Zones {
		key := Slug(z.Name)
		if owner, taken := owners[key]; taken {
			return fmt.Errorf("%w: zone %q maps to distribution key %q already used by %q",
				scenario.ErrInvalidScenario, z.Name, key, owner)
		}
		owners[key] = z.Name
	}

	return nil
}
