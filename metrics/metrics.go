// Package metrics exposes coordinator state as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/relief/evacuation"
)

// Route query outcomes used as the "result" label.
const (
	RouteFound       = "found"
	RouteUnreachable = "unreachable"
	RouteError       = "error"
)

// Metrics groups every collector. It implements evacuation.Recorder.
type Metrics struct {
	// Evacuations tracks the number of evacuations per lifecycle state.
	Evacuations *prometheus.GaugeVec

	// PeopleEvacuated and PeopleToEvacuate track headcounts over all evacuations.
	PeopleEvacuated  prometheus.Gauge
	PeopleToEvacuate prometheus.Gauge

	// EvacuationProgress tracks the overall evacuated percentage.
	EvacuationProgress prometheus.Gauge

	// RouteQueries counts shortest-path queries by outcome.
	RouteQueries *prometheus.CounterVec

	// DistributedUnits counts supply units distributed, by split mode.
	DistributedUnits *prometheus.CounterVec

	// Zones and Routes track the size of the current graph.
	Zones  prometheus.Gauge
	Routes prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evacuations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "relief_evacuations",
				Help: "Number of evacuations per state",
			},
			[]string{"state"},
		),
		PeopleEvacuated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relief_people_evacuated",
			Help: "People evacuated across all evacuations",
		}),
		PeopleToEvacuate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relief_people_to_evacuate",
			Help: "People scheduled for evacuation across all evacuations",
		}),
		EvacuationProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relief_evacuation_progress_percent",
			Help: "Overall evacuation progress in percent",
		}),
		RouteQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relief_route_queries_total",
				Help: "Total number of shortest-route queries",
			},
			[]string{"result"},
		),
		DistributedUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relief_distributed_units_total",
				Help: "Total supply units distributed",
			},
			[]string{"mode"},
		),
		Zones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relief_zones",
			Help: "Zones in the routing graph",
		}),
		Routes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relief_routes",
			Help: "Directed routes in the routing graph",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Evacuations,
			m.PeopleEvacuated,
			m.PeopleToEvacuate,
			m.EvacuationProgress,
			m.RouteQueries,
			m.DistributedUnits,
			m.Zones,
			m.Routes,
		)
	}

	return m
}

// Observe records scheduler statistics.
func (m *Metrics) Observe(st evacuation.Stats) {
	m.Evacuations.WithLabelValues(string(evacuation.StatePending)).Set(float64(st.Pending))
	m.Evacuations.WithLabelValues(string(evacuation.StateInProgress)).Set(float64(st.InProgress))
	m.Evacuations.WithLabelValues(string(evacuation.StateCompleted)).Set(float64(st.Completed))
	m.PeopleEvacuated.Set(float64(st.TotalEvacuated))
	m.PeopleToEvacuate.Set(float64(st.TotalToEvacuate))
	m.EvacuationProgress.Set(st.OverallProgress)
}

// ObserveRoute counts one route query.
func (m *Metrics) ObserveRoute(result string) {
	m.RouteQueries.WithLabelValues(result).Inc()
}

// ObserveDistribution adds units to the distributed total.
func (m *Metrics) ObserveDistribution(mode string, units int64) {
	m.DistributedUnits.WithLabelValues(mode).Add(float64(units))
}

// ObserveGraph records the graph size.
func (m *Metrics) ObserveGraph(zones, routes int) {
	m.Zones.Set(float64(zones))
	m.Routes.Set(float64(routes))
}
