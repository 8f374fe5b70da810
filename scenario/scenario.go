// Package scenario loads the zones, routes, supplies and rescue teams of an
// emergency from a YAML file.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	ErrInvalidScenario   = errors.New("scenario: invalid scenario")
	ErrInsufficientStock = errors.New("scenario: insufficient stock")
	ErrInvalidAmount     = errors.New("scenario: amount must be positive")
)

// Status describes how a zone is affected.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusAffected   Status = "affected"
	StatusEvacuating Status = "evacuating"
	StatusEvacuated  Status = "evacuated"
)

func (s Status) valid() bool {
	switch s {
	case StatusNormal, StatusAffected, StatusEvacuating, StatusEvacuated:
		return true
	}
	return false
}

// Zone is a place on the map. Its name is also its graph node ID.
type Zone struct {
	Name       string `yaml:"name" json:"name"`
	Status     Status `yaml:"status" json:"status"`
	Priority   int    `yaml:"priority" json:"priority"`     // 0–100
	Population int    `yaml:"population" json:"population"` // default evacuation headcount
}

// Route is a directed transport link between two zones.
type Route struct {
	Origin      string  `yaml:"origin" json:"origin"`
	Destination string  `yaml:"destination" json:"destination"`
	Weight      float64 `yaml:"weight" json:"weight"`
}

// Team is a rescue team that can be assigned to an evacuation.
type Team struct {
	Name    string   `yaml:"name" json:"name"`
	Leader  string   `yaml:"leader" json:"leader"`
	Members []string `yaml:"members" json:"members"`
}

// Scenario is the full input of a relief operation.
type Scenario struct {
	Zones     []Zone      `yaml:"zones" json:"zones"`
	Routes    []Route     `yaml:"routes" json:"routes"`
	Resources []*Resource `yaml:"resources" json:"resources"`
	Teams     []Team      `yaml:"teams" json:"teams"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML. Unknown fields are rejected. Zones
// without a status are normal.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	for i := range s.Zones {
		if s.Zones[i].Status == "" {
			s.Zones[i].Status = StatusNormal
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Marshal encodes the scenario back to YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Validate checks names, ranges and references. Route endpoints may name
// zones that are not declared; they are registered when the graph is built.
func (s *Scenario) Validate() error {
	seen := make(map[string]bool, len(s.Zones))
	for _, z := range s.Zones {
		if z.Name == "" {
			return fmt.Errorf("%w: zone without name", ErrInvalidScenario)
		}
		if seen[z.Name] {
			return fmt.Errorf("%w: duplicate zone %q", ErrInvalidScenario, z.Name)
		}
		seen[z.Name] = true
		if z.Priority < 0 || z.Priority > 100 {
			return fmt.Errorf("%w: zone %q priority %d outside [0,100]", ErrInvalidScenario, z.Name, z.Priority)
		}
		if z.Population < 0 {
			return fmt.Errorf("%w: zone %q has negative population", ErrInvalidScenario, z.Name)
		}
		if !z.Status.valid() {
			return fmt.Errorf("%w: zone %q has unknown status %q", ErrInvalidScenario, z.Name, z.Status)
		}
	}
	for _, r := range s.Routes {
		if r.Origin == "" || r.Destination == "" {
			return fmt.Errorf("%w: route with empty endpoint", ErrInvalidScenario)
		}
		if r.Weight < 0 || math.IsNaN(r.Weight) {
			return fmt.Errorf("%w: route %s→%s has weight %v", ErrInvalidScenario, r.Origin, r.Destination, r.Weight)
		}
	}
	names := make(map[string]bool, len(s.Resources))
	for _, r := range s.Resources {
		if r == nil || r.Name == "" {
			return fmt.Errorf("%w: resource without name", ErrInvalidScenario)
		}
		if names[r.Name] {
			return fmt.Errorf("%w: duplicate resource %q", ErrInvalidScenario, r.Name)
		}
		names[r.Name] = true
		if r.Quantity < 0 || r.Used < 0 || r.Used > r.Quantity {
			return fmt.Errorf("%w: resource %q stock %d/%d", ErrInvalidScenario, r.Name, r.Used, r.Quantity)
		}
	}
	for _, t := range s.Teams {
		if t.Name == "" {
			return fmt.Errorf("%w: team without name", ErrInvalidScenario)
		}
	}

	return nil
}

// Zone returns the zone with the given name.
func (s *Scenario) Zone(name string) (Zone, bool) {
	for _, z := range s.Zones {
		if z.Name == name {
			return z, true
		}
	}

	return Zone{}, false
}

// Resource returns the resource with the given name.
func (s *Scenario) Resource(name string) (*Resource, bool) {
	for _, r := range s.Resources {
		if r.Name == name {
			return r, true
		}
	}

	return nil, false
}

// Team returns the team with the given name.
func (s *Scenario) Team(name string) (Team, bool) {
	for _, t := range s.Teams {
		if t.Name == name {
			return t, true
		}
	}

	return Team{}, false
}
