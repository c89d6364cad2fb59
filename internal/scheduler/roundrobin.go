package scheduler

import (
	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// roundRobin time-slices processes through a FIFO ready queue.
type roundRobin struct{}

func (roundRobin) Algorithm() Algorithm { return RoundRobin }

// Compute dequeues the front process and runs it for min(quantum,
// remaining). A process goes back to the tail only if work remains, so the
// queue never holds a finished process.
func (roundRobin) Compute(procs []process.Process, params Params) (Trace, error) {
	if _, err := validate(RoundRobin, procs, params); err != nil {
		return nil, err
	}
	quantum := params.Quantum

	remaining := make([]int, len(procs))
	for i, p := range procs {
		remaining[i] = p.Burst
	}

	queue := inputOrder(len(procs))
	trace := make(Trace, 0, len(procs))
	now := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		slice := min(remaining[i], quantum)
		trace = append(trace, Interval{ProcessID: procs[i].ID, Start: now, End: now + slice})
		now += slice
		remaining[i] -= slice

		if remaining[i] > 0 {
			queue = append(queue, i)
		}
	}
	return trace, nil
}
