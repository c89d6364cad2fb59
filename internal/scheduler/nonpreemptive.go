package scheduler

import (
	"sort"

	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// fcfs runs processes in input order.
type fcfs struct{}

func (fcfs) Algorithm() Algorithm { return FCFS }

func (fcfs) Compute(procs []process.Process, params Params) (Trace, error) {
	if _, err := validate(FCFS, procs, params); err != nil {
		return nil, err
	}
	return runToCompletion(procs, inputOrder(len(procs))), nil
}

// sjf runs processes by ascending burst. The sort is stable so equal
// bursts keep their input order.
type sjf struct{}

func (sjf) Algorithm() Algorithm { return SJF }

func (sjf) Compute(procs []process.Process, params Params) (Trace, error) {
	if _, err := validate(SJF, procs, params); err != nil {
		return nil, err
	}
	order := inputOrder(len(procs))
	sort.SliceStable(order, func(a, b int) bool {
		return procs[order[a]].Burst < procs[order[b]].Burst
	})
	return runToCompletion(procs, order), nil
}

// npp runs processes by ascending priority value, stable on ties.
type npp struct{}

func (npp) Algorithm() Algorithm { return NPP }

func (npp) Compute(procs []process.Process, params Params) (Trace, error) {
	prios, err := validate(NPP, procs, params)
	if err != nil {
		return nil, err
	}
	order := inputOrder(len(procs))
	sort.SliceStable(order, func(a, b int) bool {
		return prios[order[a]] < prios[order[b]]
	})
	return runToCompletion(procs, order), nil
}

// runToCompletion emits one interval per process, back-to-back from 0.
func runToCompletion(procs []process.Process, order []int) Trace {
	trace := make(Trace, 0, len(order))
	now := 0
	for _, i := range order {
		p := procs[i]
		trace = append(trace, Interval{ProcessID: p.ID, Start: now, End: now + p.Burst})
		now += p.Burst
	}
	return trace
}

func inputOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
