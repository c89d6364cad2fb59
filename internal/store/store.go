// Package store persists simulation runs so they can be listed and
// replayed later.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/go-cpusched/internal/process"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/stats"
)

// Store defines the persistence layer for simulation runs.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	// GetRun returns nil, nil when no run has the id.
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, opts ListOptions) ([]*Run, int, error)
	DeleteRun(ctx context.Context, id string) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// Run is one stored simulation: its inputs, the canonical trace and the
// headline figures used by listings.
type Run struct {
	ID         string            `json:"id"`
	Algorithm  string            `json:"algorithm"`
	Quantum    int               `json:"quantum,omitempty"`
	Priorities []int             `json:"priorities,omitempty"`
	Processes  []process.Process `json:"processes"`
	Trace      scheduler.Trace   `json:"trace"`
	CreatedAt  time.Time         `json:"created_at"`

	Makespan        int     `json:"makespan"`
	ContextSwitches int     `json:"context_switches"`
	AvgWaiting      float64 `json:"avg_waiting"`
	AvgTurnaround   float64 `json:"avg_turnaround"`
}

// NewRun builds a Run with a fresh id and the summary figures filled in
// from trace.
func NewRun(alg scheduler.Algorithm, procs []process.Process, params scheduler.Params, trace scheduler.Trace) *Run {
	r := stats.Compute(procs, trace)
	return &Run{
		ID:              NewRunID(),
		Algorithm:       alg.String(),
		Quantum:         params.Quantum,
		Priorities:      params.Priorities,
		Processes:       process.Clone(procs),
		Trace:           trace.Clone(),
		CreatedAt:       time.Now().UTC(),
		Makespan:        r.Makespan,
		ContextSwitches: r.ContextSwitches,
		AvgWaiting:      r.AvgWaiting,
		AvgTurnaround:   r.AvgTurnaround,
	}
}

// NewRunID returns a new run identifier.
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// ListOptions controls pagination and filtering of ListRuns.
type ListOptions struct {
	Limit     int
	Offset    int
	Algorithm string // canonical name; empty matches all
}

// Clamp bounds Limit to [1, 100] (default 20) and Offset to >= 0.
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}
