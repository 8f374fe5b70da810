// Package api serves the coordinator over HTTP with JSON bodies.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/katalvlaran/relief/config"
	"github.com/katalvlaran/relief/coordinator"
	"github.com/katalvlaran/relief/distribution"
	"github.com/katalvlaran/relief/scenario"
)

// Handler exposes coordinator operations as HTTP endpoints.
type Handler struct {
	coord *coordinator.Coordinator
	log   *zap.Logger
}

// NewHandler returns a Handler. A nil logger is replaced by a no-op one.
func NewHandler(coord *coordinator.Coordinator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{coord: coord, log: log}
}

// RegisterRoutes mounts every endpoint on router.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/zones", h.ListZones).Methods(http.MethodGet)
	router.HandleFunc("/api/zones", h.AddZone).Methods(http.MethodPost)
	router.HandleFunc("/api/zones/{id}/reachable", h.Reachable).Methods(http.MethodGet)
	router.HandleFunc("/api/routes", h.AddRoute).Methods(http.MethodPost)
	router.HandleFunc("/api/routes/shortest", h.ShortestPath).Methods(http.MethodGet)

	router.HandleFunc("/api/evacuations", h.ListEvacuations).Methods(http.MethodGet)
	router.HandleFunc("/api/evacuations", h.ScheduleEvacuation).Methods(http.MethodPost)
	router.HandleFunc("/api/evacuations/urgent", h.ScheduleUrgent).Methods(http.MethodPost)
	router.HandleFunc("/api/evacuations/next", h.NextEvacuation).Methods(http.MethodGet)
	router.HandleFunc("/api/evacuations/begin", h.BeginEvacuation).Methods(http.MethodPost)
	router.HandleFunc("/api/evacuations/stats", h.Statistics).Methods(http.MethodGet)
	router.HandleFunc("/api/evacuations/{id}/progress", h.UpdateProgress).Methods(http.MethodPut)

	router.HandleFunc("/api/distributions", h.Distribute).Methods(http.MethodPost)
	router.HandleFunc("/api/distributions/current", h.CurrentDistribution).Methods(http.MethodGet)

	router.HandleFunc("/api/resources", h.ListResources).Methods(http.MethodGet)
	router.HandleFunc("/api/resources/{name}/reserve", h.ReserveResource).Methods(http.MethodPost)
	router.HandleFunc("/api/resources/{name}/release", h.ReleaseResource).Methods(http.MethodPost)
	router.HandleFunc("/api/teams", h.ListTeams).Methods(http.MethodGet)
}

// NewRouter builds the full router: API routes, the metrics endpoint when
// enabled, request IDs and access logs.
func NewRouter(h *Handler, cfg config.MetricsConfig, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()
	router.Use(withRequestID, withLogging(h.log))
	h.RegisterRoutes(router)
	if cfg.Enabled && gatherer != nil {
		router.Handle(cfg.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	// Router middleware does not run for unmatched paths.
	router.NotFoundHandler = withRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, CodeNotFound, "no such endpoint")
	}))

	return router
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, r, status, code, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeInvalidArgument, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// ListZones handles GET /api/zones: every zone with its priority level.
func (h *Handler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones := h.coord.Zones()
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"zones": zones,
		"count": len(zones),
	})
}

// AddZone handles POST /api/zones. A zone with the same name is replaced
// and the graph is rebuilt.
func (h *Handler) AddZone(w http.ResponseWriter, r *http.Request) {
	var z scenario.Zone
	if !decode(w, r, &z) {
		return
	}
	if err := h.coord.AddZone(z); err != nil {
		h.fail(w, r, err)
		return
	}
	got, _ := h.coord.Zone(z.Name)
	writeJSON(w, r, http.StatusCreated, got)
}

// AddRoute handles POST /api/routes with a directed route body.
func (h *Handler) AddRoute(w http.ResponseWriter, r *http.Request) {
	var rt scenario.Route
	if !decode(w, r, &rt) {
		return
	}
	if err := h.coord.AddRoute(rt); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rt)
}

// RouteResponse is the body of a shortest-route reply.
type RouteResponse struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Found bool     `json:"found"`
	Zones []string `json:"zones"`
	Cost  float64  `json:"cost"`
	Hops  int      `json:"hops"`
}

// ShortestPath handles GET /api/routes/shortest?from=&to=. Unknown zones
// answer 404; an unreachable destination answers 200 with found=false.
func (h *Handler) ShortestPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	p, err := h.coord.ShortestPath(from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	zones := p.Zones
	if zones == nil {
		zones = []string{}
	}
	writeJSON(w, r, http.StatusOK, RouteResponse{
		From:  from,
		To:    to,
		Found: p.Found(),
		Zones: zones,
		Cost:  p.Cost,
		Hops:  p.Hops(),
	})
}

// Reachable handles GET /api/zones/{id}/reachable in hop order.
func (h *Handler) Reachable(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	zones, err := h.coord.Reachable(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"origin": id,
		"zones":  zones,
		"count":  len(zones),
	})
}

// ScheduleRequest is the body of POST /api/evacuations. A missing headcount
// takes the zone population.
type ScheduleRequest struct {
	Zone      string `json:"zone"`
	Headcount *int   `json:"headcount,omitempty"`
}

// ScheduleEvacuation handles POST /api/evacuations.
func (h *Handler) ScheduleEvacuation(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if !decode(w, r, &req) {
		return
	}
	n := -1
	if req.Headcount != nil {
		n = *req.Headcount
		if n < 0 {
			writeError(w, r, http.StatusBadRequest, CodeInvalidArgument, "headcount must be non-negative")
			return
		}
	}
	id, err := h.coord.Schedule(req.Zone, n)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, _ := h.coord.Evacuation(id)
	writeJSON(w, r, http.StatusCreated, e)
}

// UrgentRequest is the body of POST /api/evacuations/urgent.
type UrgentRequest struct {
	Headcounts map[string]int `json:"headcounts"`
}

// ScheduleUrgent handles POST /api/evacuations/urgent. The body is optional.
func (h *Handler) ScheduleUrgent(w http.ResponseWriter, r *http.Request) {
	var req UrgentRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	ids, err := h.coord.ScheduleUrgent(req.Headcounts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]interface{}{
		"ids":   ids,
		"count": len(ids),
	})
}

// ListEvacuations handles GET /api/evacuations in scheduling order.
func (h *Handler) ListEvacuations(w http.ResponseWriter, r *http.Request) {
	list := h.coord.Evacuations()
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"evacuations": list,
		"count":       len(list),
	})
}

// NextEvacuation handles GET /api/evacuations/next without dequeuing.
// An empty queue answers 409.
func (h *Handler) NextEvacuation(w http.ResponseWriter, r *http.Request) {
	e, err := h.coord.NextEvacuation()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, e)
}

// BeginRequest is the body of POST /api/evacuations/begin.
type BeginRequest struct {
	Team string `json:"team"`
}

// BeginEvacuation handles POST /api/evacuations/begin. An unknown team
// answers 404 and leaves the queue unchanged.
func (h *Handler) BeginEvacuation(w http.ResponseWriter, r *http.Request) {
	var req BeginRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	e, err := h.coord.BeginNext(req.Team)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, e)
}

// ProgressRequest is the body of PUT /api/evacuations/{id}/progress.
type ProgressRequest struct {
	Evacuated int `json:"evacuated"`
}

// UpdateProgress handles PUT /api/evacuations/{id}/progress. Completed
// evacuations answer 409.
func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if !decode(w, r, &req) {
		return
	}
	e, err := h.coord.UpdateProgress(mux.Vars(r)["id"], req.Evacuated)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, e)
}

// Statistics handles GET /api/evacuations/stats.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.coord.Statistics())
}

// DistributeRequest is the body of POST /api/distributions. With Resource
// set, the quantity is first reserved from that resource's stock.
type DistributeRequest struct {
	Quantity int64  `json:"quantity"`
	Weighted bool   `json:"weighted"`
	Resource string `json:"resource,omitempty"`
}

// Allocation is one leaf of a distribution.
type Allocation struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Quantity int64  `json:"quantity"`
}

// DistributionResponse summarizes a distribution tree.
type DistributionResponse struct {
	Resource    string       `json:"resource,omitempty"`
	Total       int64        `json:"total"`
	Assigned    int64        `json:"assigned"`
	Allocations []Allocation `json:"allocations"`
	Rendered    string       `json:"rendered"`
}

func newDistributionResponse(tree *distribution.Tree) DistributionResponse {
	leaves := tree.Leaves()
	resp := DistributionResponse{
		Total:       tree.Total(),
		Assigned:    tree.TotalAssignedToLeaves(),
		Allocations: make([]Allocation, 0, len(leaves)),
		Rendered:    tree.Render(),
	}
	for _, l := range leaves {
		resp.Allocations = append(resp.Allocations, Allocation{Key: l.Key, Label: l.Label, Quantity: l.Quantity})
	}

	return resp
}

// Distribute handles POST /api/distributions. The reply describes the tree
// this request built, even if another request replaces it meanwhile.
// Insufficient stock answers 409.
func (h *Handler) Distribute(w http.ResponseWriter, r *http.Request) {
	var req DistributeRequest
	if !decode(w, r, &req) {
		return
	}
	var (
		tree *distribution.Tree
		err  error
	)
	if req.Resource != "" {
		tree, err = h.coord.DistributeResource(req.Resource, req.Quantity, req.Weighted)
	} else {
		tree, err = h.coord.Distribute(req.Quantity, req.Weighted)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := newDistributionResponse(tree)
	resp.Resource = req.Resource
	writeJSON(w, r, http.StatusOK, resp)
}

// CurrentDistribution handles GET /api/distributions/current: the tree of
// the last successful distribution, or 404 before the first one.
func (h *Handler) CurrentDistribution(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.coord.Distribution()
	if !ok {
		writeError(w, r, http.StatusNotFound, CodeNotFound, "no distribution yet")
		return
	}
	writeJSON(w, r, http.StatusOK, newDistributionResponse(tree))
}

// ListResources handles GET /api/resources with used and available units.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	stock := h.coord.Resources()
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"resources": stock,
		"count":     len(stock),
	})
}

// StockRequest is the body of POST /api/resources/{name}/reserve and
// /release.
type StockRequest struct {
	Quantity int `json:"quantity"`
}

// ReserveResource handles POST /api/resources/{name}/reserve.
func (h *Handler) ReserveResource(w http.ResponseWriter, r *http.Request) {
	h.moveStock(w, r, h.coord.Reserve)
}

// ReleaseResource handles POST /api/resources/{name}/release.
func (h *Handler) ReleaseResource(w http.ResponseWriter, r *http.Request) {
	h.moveStock(w, r, h.coord.Release)
}

func (h *Handler) moveStock(w http.ResponseWriter, r *http.Request, move func(string, int) (coordinator.Stock, error)) {
	var req StockRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := move(mux.Vars(r)["name"], req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}

// ListTeams handles GET /api/teams.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams := h.coord.Teams()
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}
