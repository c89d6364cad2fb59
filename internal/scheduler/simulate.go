package scheduler

import (
	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// Simulate runs alg over procs and returns the canonical trace. All input
// checks happen before any trace is built; on error no partial trace is
// returned.
func Simulate(procs []process.Process, alg Algorithm, params Params) (Trace, error) {
	s, err := StrategyFor(alg)
	if err != nil {
		return nil, err
	}
	return s.Compute(procs, params)
}

// SimulateByName resolves name with ParseAlgorithm and runs Simulate.
func SimulateByName(procs []process.Process, name string, params Params) (Algorithm, Trace, error) {
	alg, err := ParseAlgorithm(name)
	if err != nil {
		return 0, nil, err
	}
	trace, err := Simulate(procs, alg, params)
	return alg, trace, err
}

// Check reports whether Simulate would accept the inputs, without
// building a trace.
func Check(procs []process.Process, alg Algorithm, params Params) error {
	if !alg.Valid() {
		return unknownAlgorithm(alg.String())
	}
	_, err := validate(alg, procs, params)
	return err
}

// Applicable returns the algorithms whose parameters are satisfied by the
// inputs: priority algorithms need priorities, round robin needs a
// positive quantum.
func Applicable(procs []process.Process, params Params) []Algorithm {
	var algs []Algorithm
	for _, s := range Strategies() {
		if Check(procs, s.Algorithm(), params) == nil {
			algs = append(algs, s.Algorithm())
		}
	}
	return algs
}
