// Package stats derives per-process and aggregate scheduling statistics
// from an execution trace.
//
// All processes are ready at time 0, so turnaround equals completion time
// and waiting time is turnaround minus burst.
package stats

import (
	"github.com/influxdata/tdigest"

	"github.com/randomizedcoder/go-cpusched/internal/process"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// digestCompression bounds the t-digest to ~100 centroids.
const digestCompression = 100

// ProcessStats holds the timing figures for one process.
type ProcessStats struct {
	ID         string `json:"id"`
	Burst      int    `json:"burst"`
	Priority   *int   `json:"priority,omitempty"`
	FirstStart int    `json:"first_start"`
	Completion int    `json:"completion"`
	Turnaround int    `json:"turnaround"`
	Waiting    int    `json:"waiting"`
	Response   int    `json:"response"`
	Slices     int    `json:"slices"` // merged intervals, i.e. times dispatched
}

// Report aggregates ProcessStats over a whole trace.
type Report struct {
	Processes []ProcessStats `json:"processes"` // input order

	Makespan        int     `json:"makespan"`
	ContextSwitches int     `json:"context_switches"`
	Throughput      float64 `json:"throughput"` // processes per time unit

	AvgWaiting    float64 `json:"avg_waiting"`
	AvgTurnaround float64 `json:"avg_turnaround"`
	AvgResponse   float64 `json:"avg_response"`

	// Waiting-time percentiles (t-digest estimates)
	WaitingP50 float64 `json:"waiting_p50"`
	WaitingP95 float64 `json:"waiting_p95"`
	WaitingP99 float64 `json:"waiting_p99"`
	MaxWaiting int     `json:"max_waiting"`
}

// Compute builds a Report for trace, which must have been produced from
// procs. Processes sharing an id share one set of figures.
func Compute(procs []process.Process, trace scheduler.Trace) *Report {
	merged := trace.Merge()

	type span struct {
		first, last, slices int
		seen                bool
	}
	spans := make(map[string]*span, len(procs))
	for _, p := range procs {
		if _, ok := spans[p.ID]; !ok {
			spans[p.ID] = &span{}
		}
	}
	for _, iv := range merged {
		s, ok := spans[iv.ProcessID]
		if !ok {
			continue
		}
		if !s.seen {
			s.first = iv.Start
			s.seen = true
		}
		s.last = iv.End
		s.slices++
	}

	r := &Report{
		Processes:       make([]ProcessStats, len(procs)),
		Makespan:        trace.Makespan(),
		ContextSwitches: merged.ContextSwitches(),
	}
	if len(procs) == 0 {
		return r
	}

	digest := tdigest.NewWithCompression(digestCompression)
	var sumWait, sumTurn, sumResp int
	for i, p := range procs {
		s := spans[p.ID]
		ps := ProcessStats{
			ID:         p.ID,
			Burst:      p.Burst,
			Priority:   p.Priority,
			FirstStart: s.first,
			Completion: s.last,
			Turnaround: s.last,
			Waiting:    s.last - p.Burst,
			Response:   s.first,
			Slices:     s.slices,
		}
		r.Processes[i] = ps

		sumWait += ps.Waiting
		sumTurn += ps.Turnaround
		sumResp += ps.Response
		r.MaxWaiting = max(r.MaxWaiting, ps.Waiting)
		digest.Add(float64(ps.Waiting), 1)
	}

	n := float64(len(procs))
	r.AvgWaiting = float64(sumWait) / n
	r.AvgTurnaround = float64(sumTurn) / n
	r.AvgResponse = float64(sumResp) / n
	if r.Makespan > 0 {
		r.Throughput = n / float64(r.Makespan)
	}
	r.WaitingP50 = digest.Quantile(0.50)
	r.WaitingP95 = digest.Quantile(0.95)
	r.WaitingP99 = digest.Quantile(0.99)

	return r
}

// Lookup returns the stats for id.
func (r *Report) Lookup(id string) (ProcessStats, bool) {
	for _, ps := range r.Processes {
		if ps.ID == id {
			return ps, true
		}
	}
	return ProcessStats{}, false
}
