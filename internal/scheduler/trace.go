package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// ErrInvalidTrace is wrapped by every error returned from Trace.Validate.
var ErrInvalidTrace = errors.New("invalid trace")

// Interval records that a process ran on the processor over [Start, End).
type Interval struct {
	ProcessID string `json:"process_id"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// Duration returns End - Start.
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// String formats the interval as "ID(start-end)".
func (iv Interval) String() string {
	return fmt.Sprintf("%s(%d-%d)", iv.ProcessID, iv.Start, iv.End)
}

// Trace is the ordered sequence of intervals produced by a strategy.
// It is the only artifact handed to renderers and other consumers.
type Trace []Interval

// String formats the trace as space-separated intervals.
func (t Trace) String() string {
	parts := make([]string, len(t))
	for i, iv := range t {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " ")
}

// Makespan returns the time at which the last interval ends.
func (t Trace) Makespan() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}

// Clone returns an independent copy of the trace.
func (t Trace) Clone() Trace {
	if t == nil {
		return nil
	}
	out := make(Trace, len(t))
	copy(out, t)
	return out
}

// Merge collapses adjacent intervals of the same process into one. The
// receiver is not modified. Merging only changes presentation; the
// unmerged trace is the canonical record of preemption points.
func (t Trace) Merge() Trace {
	if len(t) == 0 {
		return Trace{}
	}
	merged := make(Trace, 0, len(t))
	cur := t[0]
	for _, iv := range t[1:] {
		if iv.ProcessID == cur.ProcessID && iv.Start == cur.End {
			cur.End = iv.End
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	return append(merged, cur)
}

// Order returns the process id of each interval in sequence.
func (t Trace) Order() []string {
	ids := make([]string, len(t))
	for i, iv := range t {
		ids[i] = iv.ProcessID
	}
	return ids
}

// Totals returns the summed run time per process id.
func (t Trace) Totals() map[string]int {
	totals := make(map[string]int)
	for _, iv := range t {
		totals[iv.ProcessID] += iv.Duration()
	}
	return totals
}

// ContextSwitches counts boundaries where the running process changes.
func (t Trace) ContextSwitches() int {
	switches := 0
	for i := 1; i < len(t); i++ {
		if t[i].ProcessID != t[i-1].ProcessID {
			switches++
		}
	}
	return switches
}

// At returns the process running during time unit [tick, tick+1).
func (t Trace) At(tick int) (string, bool) {
	for _, iv := range t {
		if tick >= iv.Start && tick < iv.End {
			return iv.ProcessID, true
		}
		if iv.Start > tick {
			break
		}
	}
	return "", false
}

// Validate checks the trace against the process list it was computed from:
// intervals are positive-length, start at 0, are contiguous, and each
// process id receives exactly its burst time.
func (t Trace) Validate(procs []process.Process) error {
	want := make(map[string]int, len(procs))
	total := 0
	for _, p := range procs {
		want[p.ID] += p.Burst
		total += p.Burst
	}

	if len(t) == 0 {
		if total == 0 {
			return nil
		}
		return fmt.Errorf("%w: empty trace for %d time units of work", ErrInvalidTrace, total)
	}

	if t[0].Start != 0 {
		return fmt.Errorf("%w: first interval starts at %d, want 0", ErrInvalidTrace, t[0].Start)
	}

	for i, iv := range t {
		if iv.End <= iv.Start {
			return fmt.Errorf("%w: interval %d %s has non-positive length", ErrInvalidTrace, i, iv)
		}
		if i > 0 && iv.Start != t[i-1].End {
			return fmt.Errorf("%w: gap or overlap between %s and %s", ErrInvalidTrace, t[i-1], iv)
		}
		if _, ok := want[iv.ProcessID]; !ok {
			return fmt.Errorf("%w: interval %d runs unknown process %q", ErrInvalidTrace, i, iv.ProcessID)
		}
	}

	got := t.Totals()
	for id, burst := range want {
		if got[id] != burst {
			return fmt.Errorf("%w: process %q ran %d units, want %d", ErrInvalidTrace, id, got[id], burst)
		}
	}

	if t.Makespan() != total {
		return fmt.Errorf("%w: makespan %d, want %d", ErrInvalidTrace, t.Makespan(), total)
	}
	return nil
}
