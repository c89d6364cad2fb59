package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// Result is the outcome of one algorithm in a comparison.
type Result struct {
	Algorithm Algorithm
	Trace     Trace
	Err       error
	Duration  time.Duration // time spent in Simulate
}

// Compare simulates several algorithms in parallel over the same inputs.
// Each goroutine receives its own copy of the process list. Results are
// returned in the order of algs; a repeated algorithm runs once. With no
// algs, every applicable algorithm is run. Algorithms that have not started when ctx is cancelled report
// ctx.Err().
func Compare(ctx context.Context, procs []process.Process, params Params, algs ...Algorithm) []Result {
	if len(algs) == 0 {
		algs = Applicable(procs, params)
	}
	algs = uniqueAlgorithms(algs)

	results := make([]Result, len(algs))
	var wg sync.WaitGroup
	for i, alg := range algs {
		wg.Add(1)
		go func(i int, alg Algorithm, procs []process.Process) {
			defer wg.Done()
			results[i].Algorithm = alg
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			start := time.Now()
			results[i].Trace, results[i].Err = Simulate(procs, alg, params)
			results[i].Duration = time.Since(start)
		}(i, alg, process.Clone(procs))
	}
	wg.Wait()

	return results
}

func uniqueAlgorithms(algs []Algorithm) []Algorithm {
	out := make([]Algorithm, 0, len(algs))
	seen := make(map[Algorithm]bool, len(algs))
	for _, alg := range algs {
		if !seen[alg] {
			seen[alg] = true
			out = append(out, alg)
		}
	}
	return out
}
