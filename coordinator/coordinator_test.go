package coordinator_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/relief/config"
	"github.com/katalvlaran/relief/coordinator"
	"github.com/katalvlaran/relief/distribution"
	"github.com/katalvlaran/relief/evacuation"
	"github.com/katalvlaran/relief/metrics"
	"github.com/katalvlaran/relief/scenario"
)

const doc = `
zones:
  - {name: Zona Norte, status: affected, priority: 90, population: 200}
  - {name: Zona Sur, priority: 60, population: 150}
  - {name: Zona Este, priority: 30, population: 100}
routes:
  - {origin: Centro, destination: Zona Norte, weight: 5}
  - {origin: Zona Norte, destination: Zona Sur, weight: 3}
  - {origin: Centro, destination: Zona Sur, weight: 10}
resources:
  - {name: agua, quantity: 500}
teams:
  - {name: Alfa, leader: Ana}
`

func newCoordinator(t *testing.T, opts ...coordinator.Option) *coordinator.Coordinator {
	t.Helper()
	s, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)

	c := coordinator.New(config.Default(), opts...)
	require.NoError(t, c.Load(s))

	return c
}

func TestSync_RegistersRouteEndpoints(t *testing.T) {
	c := newCoordinator(t)

	nodes, edges := c.Graph()
	assert.Equal(t, []string{"Zona Norte", "Zona Sur", "Zona Este", "Centro"}, nodes)
	assert.Len(t, edges, 3)
	assert.Len(t, c.Zones(), 3, "route endpoints are graph nodes, not zones")
}

func TestShortestPath(t *testing.T) {
	m := metrics.New(nil)
	c := newCoordinator(t, coordinator.WithMetrics(m))

	p, err := c.ShortestPath("Centro", "Zona Sur")
	require.NoError(t, err)
	assert.Equal(t, []string{"Centro", "Zona Norte", "Zona Sur"}, p.Zones)
	assert.Equal(t, 8.0, p.Cost)

	p, err = c.ShortestPath("Centro", "Zona Este")
	require.NoError(t, err)
	assert.False(t, p.Found())

	_, err = c.ShortestPath("Centro", "Atlantis")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues(metrics.RouteFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues(metrics.RouteUnreachable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues(metrics.RouteError)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Zones))
}

func TestAddRoute_Resyncs(t *testing.T) {
	c := newCoordinator(t)
	require.NoError(t, c.AddRoute(scenario.Route{Origin: "Zona Sur", Destination: "Zona Este", Weight: 2}))

	p, err := c.ShortestPath("Centro", "Zona Este")
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Cost)

	require.ErrorIs(t, c.AddRoute(scenario.Route{Origin: "A", Destination: "B", Weight: -1}), scenario.ErrInvalidScenario)
}

func TestAddZone_Replaces(t *testing.T) {
	c := newCoordinator(t)
	require.NoError(t, c.AddZone(scenario.Zone{Name: "Zona Este", Priority: 85}))
	require.NoError(t, c.AddZone(scenario.Zone{Name: "Zona Oeste", Priority: 10}))

	z, ok := c.Zone("Zona Este")
	require.True(t, ok)
	assert.Equal(t, 85, z.Priority)
	assert.Equal(t, scenario.StatusNormal, z.Status)
	assert.Len(t, c.Zones(), 4)
	assert.Equal(t, evacuation.LevelCritical, c.Zones()[2].Level)

	require.ErrorIs(t, c.AddZone(scenario.Zone{Name: "X", Priority: 200}), scenario.ErrInvalidScenario)
}

func TestReachableAndIsolated(t *testing.T) {
	c := newCoordinator(t)

	r, err := c.Reachable("Centro")
	require.NoError(t, err)
	assert.Equal(t, []string{"Centro", "Zona Norte", "Zona Sur"}, r)

	iso, err := c.Isolated("Centro")
	require.NoError(t, err)
	assert.Equal(t, []string{"Zona Este"}, iso)
}

func TestScheduleUrgent(t *testing.T) {
	c := newCoordinator(t)

	ids, err := c.ScheduleUrgent(map[string]int{"Zona Sur": 500})
	require.NoError(t, err)
	require.Len(t, ids, 2, "only zones with priority >= 60")

	next, err := c.NextEvacuation()
	require.NoError(t, err)
	assert.Equal(t, "Zona Norte", next.ZoneID)
	assert.Equal(t, 200, next.Headcount, "population is the default headcount")

	st := c.Statistics()
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 700, st.TotalToEvacuate)
}

func TestEvacuationLifecycle(t *testing.T) {
	c := newCoordinator(t)

	_, err := c.Schedule("Atlantis", 10)
	require.ErrorIs(t, err, coordinator.ErrZoneNotFound)

	id, err := c.Schedule("Zona Este", -1)
	require.NoError(t, err)

	e, err := c.BeginNext("")
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, config.Default().Evacuation.DefaultTeam, e.Team)

	e, err = c.UpdateProgress(id, 100)
	require.NoError(t, err)
	assert.True(t, e.Done())

	got, ok := c.Evacuation(id)
	require.True(t, ok)
	assert.Equal(t, evacuation.StateCompleted, got.State)
	assert.Len(t, c.Evacuations(), 1)
	assert.Contains(t, c.EvacuationReport(), "1 completed")

	_, err = c.NextEvacuation()
	require.ErrorIs(t, err, evacuation.ErrNothingPending)
}

func TestDistribute(t *testing.T) {
	m := metrics.New(nil)
	c := newCoordinator(t, coordinator.WithMetrics(m))

	_, ok := c.Distribution()
	assert.False(t, ok)

	tree, err := c.Distribute(300, false)
	require.NoError(t, err)
	n, ok := tree.Node("zona_norte")
	require.True(t, ok)
	assert.Equal(t, int64(100), n.Quantity)
	assert.Equal(t, int64(300), tree.TotalAssignedToLeaves())

	tree, err = c.Distribute(180, true)
	require.NoError(t, err)
	n, _ = tree.Node("zona_norte")
	assert.Equal(t, int64(90), n.Quantity)
	n, _ = tree.Node("zona_sur")
	assert.Equal(t, int64(60), n.Quantity)
	n, _ = tree.Node("zona_este")
	assert.Equal(t, int64(30), n.Quantity)

	last, ok := c.Distribution()
	require.True(t, ok)
	assert.Same(t, tree, last)

	_, err = c.Distribute(-5, false)
	require.ErrorIs(t, err, distribution.ErrNegativeQuantity)

	assert.Equal(t, 300.0, testutil.ToFloat64(m.DistributedUnits.WithLabelValues(coordinator.ModeEven)))
	assert.Equal(t, 180.0, testutil.ToFloat64(m.DistributedUnits.WithLabelValues(coordinator.ModeWeighted)))
}

func TestDistributeResource(t *testing.T) {
	c := newCoordinator(t)

	tree, err := c.DistributeResource("agua", 300, false)
	require.NoError(t, err)
	assert.Equal(t, int64(300), tree.TotalAssignedToLeaves())
	stock := c.Resources()
	require.Len(t, stock, 1)
	assert.Equal(t, 300, stock[0].Used)
	assert.Equal(t, 200, stock[0].Available)

	_, err = c.DistributeResource("agua", 300, true)
	require.ErrorIs(t, err, scenario.ErrInsufficientStock)
	assert.Equal(t, 200, c.Resources()[0].Available, "failed reservation keeps stock")
	last, _ := c.Distribution()
	assert.Same(t, tree, last)

	_, err = c.DistributeResource("mantas", 1, false)
	require.ErrorIs(t, err, coordinator.ErrResourceNotFound)
	_, err = c.DistributeResource("agua", -1, false)
	require.ErrorIs(t, err, distribution.ErrNegativeQuantity)
	_, err = c.DistributeResource("agua", 0, false)
	require.ErrorIs(t, err, scenario.ErrInvalidAmount)

	s, err := c.Release("agua", 100)
	require.NoError(t, err)
	assert.Equal(t, 300, s.Available)
	_, err = c.Release("agua", 1000)
	require.ErrorIs(t, err, scenario.ErrInvalidAmount)
	_, err = c.Reserve("agua", 301)
	require.ErrorIs(t, err, scenario.ErrInsufficientStock)
}

func TestBeginNext_ChecksRoster(t *testing.T) {
	c := newCoordinator(t)
	require.Len(t, c.Teams(), 1)
	id, err := c.Schedule("Zona Norte", 10)
	require.NoError(t, err)

	_, err = c.BeginNext("Bravo")
	require.ErrorIs(t, err, coordinator.ErrTeamNotFound)
	e, ok := c.Evacuation(id)
	require.True(t, ok)
	assert.Equal(t, evacuation.StatePending, e.State)

	e, err = c.BeginNext("Alfa")
	require.NoError(t, err)
	assert.Equal(t, "Alfa", e.Team)
}

func TestDistributionKeysStayUnique(t *testing.T) {
	c := newCoordinator(t)

	require.ErrorIs(t, c.AddZone(scenario.Zone{Name: "Centro"}), scenario.ErrInvalidScenario)
	require.ErrorIs(t, c.AddZone(scenario.Zone{Name: "zona norte"}), scenario.ErrInvalidScenario)
	assert.Len(t, c.Zones(), 3)

	tree, err := c.Distribute(90, false)
	require.NoError(t, err)
	assert.Equal(t, int64(90), tree.TotalAssignedToLeaves())

	s, err := scenario.Parse([]byte("zones:\n  - {name: Centro}\n"))
	require.NoError(t, err)
	require.ErrorIs(t, coordinator.New(config.Default()).Load(s), scenario.ErrInvalidScenario)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "zona_norte", coordinator.Slug("Zona Norte"))
	assert.Equal(t, "centro", coordinator.Slug("CENTRO"))
}

func TestLogsSync(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	newCoordinator(t, coordinator.WithLogger(zap.New(core)))

	entries := logs.FilterMessage("graph synchronized").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].ContextMap()["zones"])
}

func TestConcurrentAccess(t *testing.T) {
	c := newCoordinator(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = c.ShortestPath("Centro", "Zona Sur")
		}()
		go func(i int) {
			defer wg.Done()
			_ = c.AddRoute(scenario.Route{Origin: "Centro", Destination: fmt.Sprintf("Z%d", i), Weight: 1})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = c.Schedule("Zona Norte", 10)
			_ = c.Statistics()
		}()
	}
	wg.Wait()

	nodes, _ := c.Graph()
	assert.Len(t, nodes, 12)
	assert.Equal(t, 8, c.Statistics().Pending)
}
