package scheduler

import (
	"strconv"

	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// MaxTotalBurst bounds the sum of all bursts in one simulation. Unit-step
// strategies emit one interval per time unit, so the total sizes the trace.
const MaxTotalBurst = 1 << 24

// Params carries algorithm-specific inputs.
type Params struct {
	// Priorities is a per-process priority list parallel to the process
	// slice. When nil, NPP and PP use the priority carried by each process.
	Priorities []int `json:"priorities,omitempty"`

	// Quantum is the round robin time slice. Must be positive for RoundRobin.
	Quantum int `json:"quantum,omitempty"`
}

// Strategy computes an execution trace for one scheduling policy.
type Strategy interface {
	// Algorithm identifies the policy.
	Algorithm() Algorithm

	// Compute validates the inputs and returns the canonical (unmerged)
	// trace. The process slice is never modified.
	Compute(procs []process.Process, params Params) (Trace, error)
}

// StrategyFor returns the strategy implementing alg.
func StrategyFor(alg Algorithm) (Strategy, error) {
	switch alg {
	case FCFS:
		return fcfs{}, nil
	case SJF:
		return sjf{}, nil
	case NPP:
		return npp{}, nil
	case SRTF:
		return srtf{}, nil
	case PP:
		return pp{}, nil
	case RoundRobin:
		return roundRobin{}, nil
	default:
		return nil, unknownAlgorithm(alg.String())
	}
}

// Strategies returns one strategy per supported algorithm.
func Strategies() []Strategy {
	all := All()
	out := make([]Strategy, 0, len(all))
	for _, alg := range all {
		s, _ := StrategyFor(alg)
		out = append(out, s)
	}
	return out
}

// validate performs every input check for alg before any simulation work.
// For priority algorithms it returns the resolved priority per process.
func validate(alg Algorithm, procs []process.Process, params Params) ([]int, error) {
	if len(procs) == 0 {
		return nil, invalidInput("processes", "at least one process is required")
	}
	total := 0
	for i, p := range procs {
		if p.ID == "" {
			return nil, invalidInput(fieldAt("id", i), "must not be empty")
		}
		if p.Burst <= 0 {
			return nil, invalidInput(fieldAt("burst", i), "must be positive (got %d)", p.Burst)
		}
		if p.Burst > MaxTotalBurst-total {
			return nil, invalidInput(fieldAt("burst", i), "total burst exceeds %d time units", MaxTotalBurst)
		}
		total += p.Burst
	}

	if params.Priorities != nil && len(params.Priorities) != len(procs) {
		return nil, invalidInput("priorities", "expected %d values, got %d", len(procs), len(params.Priorities))
	}

	if alg.NeedsQuantum() {
		switch {
		case params.Quantum == 0:
			return nil, invalidInput("quantum", "required for %s", alg.Description())
		case params.Quantum < 0:
			return nil, invalidInput("quantum", "must be positive (got %d)", params.Quantum)
		}
	}

	if !alg.NeedsPriorities() {
		return nil, nil
	}
	return resolvePriorities(alg, procs, params)
}

func resolvePriorities(alg Algorithm, procs []process.Process, params Params) ([]int, error) {
	prios := make([]int, len(procs))
	if params.Priorities != nil {
		copy(prios, params.Priorities)
		return prios, nil
	}

	carried := 0
	for _, p := range procs {
		if p.HasPriority() {
			carried++
		}
	}
	if carried == 0 {
		return nil, invalidInput("priorities", "required for %s", alg.Description())
	}
	for i, p := range procs {
		if !p.HasPriority() {
			return nil, invalidInput(fieldAt("priority", i), "missing (process %q)", p.ID)
		}
		prios[i] = p.PriorityValue()
	}
	return prios, nil
}

func fieldAt(name string, i int) string {
	return "processes[" + strconv.Itoa(i) + "]." + name
}
