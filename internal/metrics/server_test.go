package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// =============================================================================
// Tests: Server
// =============================================================================

func TestServer_HealthEndpoints(t *testing.T) {
	s := NewServerWithGatherer("127.0.0.1:0", prometheus.NewRegistry(), newDiscardLogger())

	for _, path := range []string{"/health", "/healthz", "/ready", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if strings.TrimSpace(rec.Body.String()) != "ok" {
				t.Errorf("body = %q, want ok", rec.Body.String())
			}
		})
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollectorWithRegistry(CollectorConfig{Version: "test"}, registry)
	c.RecordSimulation(SimulationUpdate{Algorithm: "FCFS", Processes: 2, Makespan: 8})

	s := NewServerWithGatherer("127.0.0.1:0", registry, newDiscardLogger())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"cpusched_info", "cpusched_simulations_total", "cpusched_time_units_simulated_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics missing %s", name)
		}
	}
}

// =============================================================================
// Tests: Scrape
// =============================================================================

func TestScrape(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollectorWithRegistry(CollectorConfig{Version: "v-scrape"}, registry)

	const alg = "SCRAPE_TEST"
	c.RecordSimulation(SimulationUpdate{Algorithm: alg, Processes: 3, Makespan: 9, ContextSwitches: 2, AvgWaiting: 4})
	c.RecordSimulation(SimulationUpdate{Algorithm: alg, Err: context.Canceled})

	metricsServer := NewServerWithGatherer("127.0.0.1:0", registry, newDiscardLogger())
	ts := httptest.NewServer(metricsServer.Handler())
	defer ts.Close()

	snap, err := Scrape(context.Background(), ts.Client(), ts.URL+"/metrics")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if snap.Version != "v-scrape" {
		t.Errorf("Version = %q, want v-scrape", snap.Version)
	}

	var got *AlgorithmSnapshot
	for i := range snap.Algorithms {
		if snap.Algorithms[i].Algorithm == alg {
			got = &snap.Algorithms[i]
		}
	}
	if got == nil {
		t.Fatalf("algorithm %s missing from snapshot: %+v", alg, snap.Algorithms)
	}
	if got.Succeeded != 1 || got.Failed != 1 {
		t.Errorf("succeeded/failed = %v/%v, want 1/1", got.Succeeded, got.Failed)
	}
	if got.Processes != 3 || got.TimeUnits != 9 || got.ContextSwitches != 2 || got.LastAvgWaiting != 4 {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestScrape_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := Scrape(context.Background(), ts.Client(), ts.URL); err == nil {
		t.Error("Scrape() should fail on HTTP 500")
	}
}

func TestScrape_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	if _, err := Scrape(context.Background(), nil, url); err == nil {
		t.Error("Scrape() should fail when nothing is listening")
	}
}
