// Package metrics provides Prometheus metrics for go-cpusched.
//
// Metrics are package-level and registered once per registry by
// NewCollectorWithRegistry. Algorithm labels use the canonical short names
// (FCFS, SJF, NPP, SRTF, PP, RR), so cardinality is bounded.
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// Result label values.
const (
	ResultOK               = "ok"
	ResultInvalidInput     = "invalid_input"
	ResultUnknownAlgorithm = "unknown_algorithm"
	ResultError            = "error"
)

// =============================================================================
// Simulation Metrics
// =============================================================================

var (
	cpuschedInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cpusched_info",
			Help: "Build information (value always 1)",
		},
		[]string{"version"},
	)

	cpuschedSimulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpusched_simulations_total",
			Help: "Simulations run, by algorithm and result",
		},
		[]string{"algorithm", "result"},
	)

	cpuschedSimulationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "cpusched_simulation_duration_seconds",
			Help: "Wall-clock time spent computing a trace",
			Buckets: []float64{
				0.00001, 0.00005, 0.0001, 0.0005,
				0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0,
			},
		},
		[]string{"algorithm"},
	)

	cpuschedProcessesScheduledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpusched_processes_scheduled_total",
			Help: "Processes scheduled by successful simulations",
		},
		[]string{"algorithm"},
	)

	cpuschedTraceIntervalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpusched_trace_intervals_total",
			Help: "Intervals emitted in canonical traces",
		},
		[]string{"algorithm"},
	)

	cpuschedTimeUnitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpusched_time_units_simulated_total",
			Help: "Simulated time units (sum of makespans)",
		},
		[]string{"algorithm"},
	)

	cpuschedContextSwitchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpusched_context_switches_total",
			Help: "Context switches in merged traces",
		},
		[]string{"algorithm"},
	)

	cpuschedAvgWaiting = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cpusched_last_average_waiting_time",
			Help: "Average waiting time of the most recent successful simulation",
		},
		[]string{"algorithm"},
	)
)

// =============================================================================
// Comparison and History Metrics
// =============================================================================

var (
	cpuschedComparisonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cpusched_comparisons_total",
			Help: "Comparison requests served",
		},
	)

	cpuschedRunsStoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpusched_runs_stored_total",
			Help: "Runs written to the history store, by result",
		},
		[]string{"result"},
	)
)

// =============================================================================
// Collector
// =============================================================================

// Collector records simulation outcomes into Prometheus metrics and keeps
// a few totals for the shutdown summary.
type Collector struct {
	startTime time.Time

	mu          sync.Mutex
	simulations int64
	failures    int64
	comparisons int64
	byAlgorithm map[string]int64
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Version string
}

// SimulationUpdate describes one finished simulation.
type SimulationUpdate struct {
	Algorithm       string
	Processes       int
	Intervals       int // canonical trace length
	Makespan        int
	ContextSwitches int
	AvgWaiting      float64
	Duration        time.Duration
	Err             error
}

// NewCollector creates a new metrics collector.
func NewCollector(cfg CollectorConfig) *Collector {
	return NewCollectorWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(cfg CollectorConfig, registry prometheus.Registerer) *Collector {
	c := &Collector{
		startTime:   time.Now(),
		byAlgorithm: make(map[string]int64),
	}

	registry.MustRegister(
		cpuschedInfo,
		cpuschedSimulationsTotal,
		cpuschedSimulationDurationSeconds,
		cpuschedProcessesScheduledTotal,
		cpuschedTraceIntervalsTotal,
		cpuschedTimeUnitsTotal,
		cpuschedContextSwitchesTotal,
		cpuschedAvgWaiting,
		cpuschedComparisonsTotal,
		cpuschedRunsStoredTotal,
	)

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	cpuschedInfo.Reset()
	cpuschedInfo.WithLabelValues(version).Set(1)

	return c
}

// =============================================================================
// Update Methods
// =============================================================================

// RecordSimulation records one simulation. Failed simulations only count
// towards cpusched_simulations_total.
func (c *Collector) RecordSimulation(u SimulationUpdate) {
	result := ResultLabel(u.Err)
	cpuschedSimulationsTotal.WithLabelValues(u.Algorithm, result).Inc()

	c.mu.Lock()
	c.simulations++
	if u.Err != nil {
		c.failures++
	} else {
		c.byAlgorithm[u.Algorithm]++
	}
	c.mu.Unlock()

	if u.Err != nil {
		return
	}

	cpuschedSimulationDurationSeconds.WithLabelValues(u.Algorithm).Observe(u.Duration.Seconds())
	cpuschedProcessesScheduledTotal.WithLabelValues(u.Algorithm).Add(float64(u.Processes))
	cpuschedTraceIntervalsTotal.WithLabelValues(u.Algorithm).Add(float64(u.Intervals))
	cpuschedTimeUnitsTotal.WithLabelValues(u.Algorithm).Add(float64(u.Makespan))
	cpuschedContextSwitchesTotal.WithLabelValues(u.Algorithm).Add(float64(u.ContextSwitches))
	cpuschedAvgWaiting.WithLabelValues(u.Algorithm).Set(u.AvgWaiting)
}

// RecordComparison records one comparison request.
func (c *Collector) RecordComparison() {
	cpuschedComparisonsTotal.Inc()

	c.mu.Lock()
	c.comparisons++
	c.mu.Unlock()
}

// RecordStored records a history write.
func (c *Collector) RecordStored(err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	cpuschedRunsStoredTotal.WithLabelValues(result).Inc()
}

// ResultLabel maps a simulation error to its result label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, scheduler.ErrInvalidInput):
		return ResultInvalidInput
	case errors.Is(err, scheduler.ErrUnknownAlgorithm):
		return ResultUnknownAlgorithm
	default:
		return ResultError
	}
}

// =============================================================================
// Summary Generation
// =============================================================================

// Summary holds the data for the shutdown log line.
type Summary struct {
	Uptime      time.Duration
	Simulations int64
	Failures    int64
	Comparisons int64
	ByAlgorithm map[string]int64 // successful simulations
}

// GenerateSummary creates a summary of the collector's lifetime.
func (c *Collector) GenerateSummary() *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Summary{
		Uptime:      time.Since(c.startTime),
		Simulations: c.simulations,
		Failures:    c.failures,
		Comparisons: c.comparisons,
		ByAlgorithm: make(map[string]int64, len(c.byAlgorithm)),
	}
	for alg, n := range c.byAlgorithm {
		s.ByAlgorithm[alg] = n
	}
	return s
}
