package scheduler

import (
	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// srtf selects the process with the least remaining work each time unit.
type srtf struct{}

func (srtf) Algorithm() Algorithm { return SRTF }

func (srtf) Compute(procs []process.Process, params Params) (Trace, error) {
	if _, err := validate(SRTF, procs, params); err != nil {
		return nil, err
	}
	return unitStep(procs, func(i int, remaining []int) int {
		return remaining[i]
	}), nil
}

// pp selects the process with the lowest priority value each time unit.
type pp struct{}

func (pp) Algorithm() Algorithm { return PP }

func (pp) Compute(procs []process.Process, params Params) (Trace, error) {
	prios, err := validate(PP, procs, params)
	if err != nil {
		return nil, err
	}
	return unitStep(procs, func(i int, _ []int) int {
		return prios[i]
	}), nil
}

// unitStep runs one time unit per iteration, picking the unfinished process
// with the smallest key. Ties go to the lowest input index. The loop runs
// exactly TotalBurst(procs) times since every iteration retires one unit.
func unitStep(procs []process.Process, key func(i int, remaining []int) int) Trace {
	remaining := make([]int, len(procs))
	for i, p := range procs {
		remaining[i] = p.Burst
	}
	left := process.TotalBurst(procs)

	trace := make(Trace, 0, left)
	for now := 0; left > 0; now++ {
		pick := -1
		for i, r := range remaining {
			if r == 0 {
				continue
			}
			if pick < 0 || key(i, remaining) < key(pick, remaining) {
				pick = i
			}
		}

		remaining[pick]--
		left--
		trace = append(trace, Interval{ProcessID: procs[pick].ID, Start: now, End: now + 1})
	}
	return trace
}
