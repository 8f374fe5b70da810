package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/relief/api"
	"github.com/katalvlaran/relief/config"
	"github.com/katalvlaran/relief/coordinator"
	"github.com/katalvlaran/relief/metrics"
	"github.com/katalvlaran/relief/scenario"
)

const doc = `
zones:
  - {name: Norte, priority: 90, population: 200}
  - {name: Sur, priority: 60, population: 100}
  - {name: Este, priority: 20, population: 50}
routes:
  - {origin: Centro, destination: Norte, weight: 5}
  - {origin: Norte, destination: Sur, weight: 3}
resources:
  - {name: agua, quantity: 400}
teams:
  - {name: Alfa, leader: Ana}
`

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *api.Error      `json:"error"`
	RequestID string          `json:"request_id"`
}

func newServer(t *testing.T) (*httptest.Server, *observer.ObservedLogs) {
	t.Helper()
	s, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)

	zc, logs := observer.New(zap.InfoLevel)
	log := zap.New(zc)
	reg := prometheus.NewRegistry()
	coord := coordinator.New(config.Default(), coordinator.WithLogger(log), coordinator.WithMetrics(metrics.New(reg)))
	require.NoError(t, coord.Load(s))

	router := api.NewRouter(api.NewHandler(coord, log), config.Default().Metrics, reg)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, logs
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.NotEmpty(t, env.RequestID)

	return resp.StatusCode, env
}

func TestZones(t *testing.T) {
	srv, _ := newServer(t)

	code, env := do(t, srv, http.MethodGet, "/api/zones", "")
	require.Equal(t, http.StatusOK, code)
	var body struct {
		Zones []coordinator.ZoneView `json:"zones"`
		Count int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "critical", string(body.Zones[0].Level))

	code, _ = do(t, srv, http.MethodPost, "/api/zones", `{"name":"Oeste","priority":70}`)
	assert.Equal(t, http.StatusCreated, code)

	code, env = do(t, srv, http.MethodPost, "/api/zones", `{"name":"Bad","priority":500}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, api.CodeInvalidArgument, env.Error.Code)

	code, _ = do(t, srv, http.MethodPost, "/api/zones", `{"name":"X","colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestShortestRoute(t *testing.T) {
	srv, _ := newServer(t)

	code, env := do(t, srv, http.MethodGet, "/api/routes/shortest?from=Centro&to=Sur", "")
	require.Equal(t, http.StatusOK, code)
	var route api.RouteResponse
	require.NoError(t, json.Unmarshal(env.Data, &route))
	assert.True(t, route.Found)
	assert.Equal(t, []string{"Centro", "Norte", "Sur"}, route.Zones)
	assert.Equal(t, 8.0, route.Cost)
	assert.Equal(t, 2, route.Hops)

	code, env = do(t, srv, http.MethodGet, "/api/routes/shortest?from=Centro&to=Este", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &route))
	assert.False(t, route.Found)
	assert.Empty(t, route.Zones)

	code, env = do(t, srv, http.MethodGet, "/api/routes/shortest?from=Centro&to=Atlantis", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)

	code, _ = do(t, srv, http.MethodGet, "/api/routes/shortest?to=Sur", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, srv, http.MethodPost, "/api/routes", `{"origin":"Sur","destination":"Este","weight":1}`)
	assert.Equal(t, http.StatusCreated, code)
	code, env = do(t, srv, http.MethodGet, "/api/zones/Centro/reachable", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"count":4`)
}

func TestEvacuationFlow(t *testing.T) {
	srv, _ := newServer(t)

	code, env := do(t, srv, http.MethodGet, "/api/evacuations/next", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, api.CodeEmpty, env.Error.Code)

	code, env = do(t, srv, http.MethodPost, "/api/evacuations/urgent", `{"headcounts":{"Sur":100}}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Contains(t, string(env.Data), `"count":2`)

	code, _ = do(t, srv, http.MethodPost, "/api/evacuations", `{"zone":"Este","headcount":10}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, srv, http.MethodPost, "/api/evacuations", `{"zone":"Atlantis"}`)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, srv, http.MethodPost, "/api/evacuations", `{"zone":"Este","headcount":-3}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, srv, http.MethodPost, "/api/evacuations/begin", `{"team":"Alfa"}`)
	require.Equal(t, http.StatusOK, code)
	var e struct {
		ID       string  `json:"id"`
		Zone     string  `json:"zone"`
		State    string  `json:"state"`
		Team     string  `json:"team"`
		Progress float64 `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &e))
	assert.Equal(t, "Norte", e.Zone)
	assert.Equal(t, "in_progress", e.State)
	assert.Equal(t, "Alfa", e.Team)

	code, env = do(t, srv, http.MethodPut, "/api/evacuations/"+e.ID+"/progress", `{"evacuated":200}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &e))
	assert.Equal(t, "completed", e.State)
	assert.Equal(t, 100.0, e.Progress)

	code, env = do(t, srv, http.MethodPut, "/api/evacuations/"+e.ID+"/progress", `{"evacuated":1}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, api.CodeConflict, env.Error.Code)

	code, _ = do(t, srv, http.MethodPut, "/api/evacuations/nope/progress", `{"evacuated":1}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, srv, http.MethodGet, "/api/evacuations/stats", "")
	require.Equal(t, http.StatusOK, code)
	var st struct {
		Pending   int `json:"pending"`
		Completed int `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 1, st.Completed)

	code, env = do(t, srv, http.MethodGet, "/api/evacuations", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"count":3`)
}

func TestDistribution(t *testing.T) {
	srv, _ := newServer(t)

	code, _ := do(t, srv, http.MethodGet, "/api/distributions/current", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env := do(t, srv, http.MethodPost, "/api/distributions", `{"quantity":300}`)
	require.Equal(t, http.StatusOK, code)
	var d api.DistributionResponse
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, int64(300), d.Total)
	assert.Equal(t, int64(300), d.Assigned)
	require.Len(t, d.Allocations, 3)
	assert.Equal(t, "norte", d.Allocations[0].Key)
	assert.Equal(t, int64(100), d.Allocations[0].Quantity)
	assert.Contains(t, d.Rendered, "Centro Principal")

	code, env = do(t, srv, http.MethodPost, "/api/distributions", `{"quantity":170,"weighted":true}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, int64(90), d.Allocations[0].Quantity)

	code, _ = do(t, srv, http.MethodPost, "/api/distributions", `{"quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestResourcesAndTeams(t *testing.T) {
	srv, _ := newServer(t)

	code, env := do(t, srv, http.MethodGet, "/api/resources", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"available":400`)

	code, env = do(t, srv, http.MethodPost, "/api/distributions", `{"quantity":300,"resource":"agua"}`)
	require.Equal(t, http.StatusOK, code)
	var d api.DistributionResponse
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, "agua", d.Resource)
	assert.Equal(t, int64(300), d.Assigned)

	code, env = do(t, srv, http.MethodPost, "/api/distributions", `{"quantity":300,"resource":"agua"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, api.CodeConflict, env.Error.Code)

	code, env = do(t, srv, http.MethodPost, "/api/resources/agua/release", `{"quantity":100}`)
	require.Equal(t, http.StatusOK, code)
	var stock struct {
		Used      int `json:"used"`
		Available int `json:"available"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stock))
	assert.Equal(t, 200, stock.Used)
	assert.Equal(t, 200, stock.Available)

	code, _ = do(t, srv, http.MethodPost, "/api/resources/agua/reserve", `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, http.MethodPost, "/api/resources/nada/reserve", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, srv, http.MethodGet, "/api/teams", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"count":1`)

	code, _ = do(t, srv, http.MethodPost, "/api/evacuations", `{"zone":"Sur"}`)
	require.Equal(t, http.StatusCreated, code)
	code, env = do(t, srv, http.MethodPost, "/api/evacuations/begin", `{"team":"Zeta"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t)
	do(t, srv, http.MethodGet, "/api/routes/shortest?from=Centro&to=Sur", "")

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `relief_route_queries_total{result="found"} 1`)
	assert.Contains(t, string(body), "relief_zones 4")
}

func TestRequestIDAndAccessLog(t *testing.T) {
	srv, logs := newServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/zones", nil)
	require.NoError(t, err)
	req.Header.Set(api.RequestIDHeader, "req-42")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(api.RequestIDHeader))

	// The access line is written after the response is flushed.
	require.Eventually(t, func() bool {
		return logs.FilterMessage("request").Len() > 0
	}, time.Second, 10*time.Millisecond)
	entries := logs.FilterMessage("request").All()
	last := entries[len(entries)-1].ContextMap()
	assert.Equal(t, "/api/zones", last["path"])
	assert.Equal(t, int64(http.StatusOK), last["status"])
	assert.Equal(t, "req-42", last["request_id"])
}

func TestUnknownEndpoint(t *testing.T) {
	srv, _ := newServer(t)
	code, env := do(t, srv, http.MethodGet, "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestServer_RunAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.Copy(w, bytes.NewBufferString("ok"))
	})
	s := api.NewServer(config.ServerConfig{Addr: ln.Addr().String()}, handler, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String())
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
