package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/randomizedcoder/go-cpusched/internal/metrics"
	"github.com/randomizedcoder/go-cpusched/internal/process"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/stats"
	"github.com/randomizedcoder/go-cpusched/internal/store"
)

// simulateRequest is the body of POST /api/v1/simulate.
type simulateRequest struct {
	Algorithm  string            `json:"algorithm"`
	Processes  []process.Process `json:"processes"`
	Priorities []int             `json:"priorities,omitempty"`
	Quantum    int               `json:"quantum,omitempty"`
	Merge      bool              `json:"merge,omitempty"`
}

func (r simulateRequest) params() scheduler.Params {
	return scheduler.Params{Priorities: r.Priorities, Quantum: r.Quantum}
}

// simulateResponse carries the trace (canonical unless merge was asked
// for) and its statistics. RunID is set only when history is enabled.
type simulateResponse struct {
	RunID     string          `json:"run_id,omitempty"`
	Algorithm string          `json:"algorithm"`
	Trace     scheduler.Trace `json:"trace"`
	Stats     *stats.Report   `json:"stats"`
}

// compareRequest is the body of POST /api/v1/compare. An empty
// Algorithms list runs every algorithm the inputs satisfy.
type compareRequest struct {
	Algorithms []string          `json:"algorithms,omitempty"`
	Processes  []process.Process `json:"processes"`
	Priorities []int             `json:"priorities,omitempty"`
	Quantum    int               `json:"quantum,omitempty"`
	Merge      bool              `json:"merge,omitempty"`
}

type compareResult struct {
	Algorithm string          `json:"algorithm"`
	Trace     scheduler.Trace `json:"trace,omitempty"`
	Stats     *stats.Report   `json:"stats,omitempty"`
	Error     *APIError       `json:"error,omitempty"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) *APIError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &APIError{Code: CodeBadRequest, Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req simulateRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, apiErr)
		return
	}

	params := req.params()
	start := time.Now()
	alg, trace, err := scheduler.SimulateByName(req.Processes, req.Algorithm, params)
	if err != nil {
		s.record(alg, req.Processes, nil, nil, time.Since(start), err)
		s.logger.Debug("simulation_rejected", "algorithm", req.Algorithm, "error", err, "request_id", reqID)
		respondError(w, reqID, engineError(err))
		return
	}
	report := stats.Compute(req.Processes, trace)
	s.record(alg, req.Processes, trace, report, time.Since(start), nil)

	resp := simulateResponse{
		Algorithm: alg.String(),
		Trace:     trace,
		Stats:     report,
	}
	if run := s.save(r.Context(), alg, req.Processes, params, trace); run != nil {
		resp.RunID = run.ID
	}
	if req.Merge {
		resp.Trace = trace.Merge()
	}
	respondOK(w, reqID, resp)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req compareRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondError(w, reqID, apiErr)
		return
	}

	algs, err := scheduler.ParseAlgorithms(req.Algorithms)
	if err != nil {
		respondError(w, reqID, engineError(err))
		return
	}

	params := scheduler.Params{Priorities: req.Priorities, Quantum: req.Quantum}
	if len(algs) == 0 {
		algs = scheduler.Applicable(req.Processes, params)
		if len(algs) == 0 {
			// nothing applies: report why FCFS, the least demanding, refused
			respondError(w, reqID, engineError(scheduler.Check(req.Processes, scheduler.FCFS, params)))
			return
		}
	}

	start := time.Now()
	results := scheduler.Compare(r.Context(), req.Processes, params, algs...)
	elapsed := time.Since(start)
	if s.collector != nil {
		s.collector.RecordComparison()
	}

	out := make([]compareResult, len(results))
	for i, res := range results {
		out[i].Algorithm = res.Algorithm.String()
		if res.Err != nil {
			s.record(res.Algorithm, req.Processes, nil, nil, res.Duration, res.Err)
			out[i].Error = engineError(res.Err)
			continue
		}
		report := stats.Compute(req.Processes, res.Trace)
		s.record(res.Algorithm, req.Processes, res.Trace, report, res.Duration, nil)
		out[i].Stats = report
		out[i].Trace = res.Trace
		if req.Merge {
			out[i].Trace = res.Trace.Merge()
		}
	}

	s.logger.Debug("comparison_complete", "algorithms", len(algs), "duration", elapsed.String(), "request_id", reqID)
	respondOK(w, reqID, out)
}

// record feeds one simulation outcome to the collector, if any.
func (s *Server) record(alg scheduler.Algorithm, procs []process.Process, trace scheduler.Trace, report *stats.Report, d time.Duration, err error) {
	if s.collector == nil {
		return
	}
	name := alg.String()
	if errors.Is(err, scheduler.ErrUnknownAlgorithm) {
		name = "unknown"
	}
	u := metrics.SimulationUpdate{
		Algorithm: name,
		Processes: len(procs),
		Intervals: len(trace),
		Duration:  d,
		Err:       err,
	}
	if report != nil {
		u.Makespan = report.Makespan
		u.ContextSwitches = report.ContextSwitches
		u.AvgWaiting = report.AvgWaiting
	}
	s.collector.RecordSimulation(u)
}

// save stores a successful run when history is enabled. A failed write is
// logged and the simulation is still returned.
func (s *Server) save(ctx context.Context, alg scheduler.Algorithm, procs []process.Process, params scheduler.Params, trace scheduler.Trace) *store.Run {
	if s.store == nil {
		return nil
	}
	run := store.NewRun(alg, procs, params, trace)
	err := s.store.SaveRun(ctx, run)
	if s.collector != nil {
		s.collector.RecordStored(err)
	}
	if err != nil {
		s.logger.Warn("run_save_failed", "run_id", run.ID, "error", err)
		return nil
	}
	return run
}
