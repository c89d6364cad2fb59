// Package scheduler implements the CPU scheduling engine.
//
// Six strategies are provided behind the Strategy interface:
//   - FCFS, SJF and NPP run each process to completion in a computed order
//   - SRTF and PP re-decide every time unit and may preempt
//   - RoundRobin time-slices with a fixed quantum
//
// Every call is a pure function over the caller's process list: strategies
// keep their remaining-burst counters in local state and never write to the
// input slice, so simulations may run concurrently.
package scheduler

import (
	"strings"
)

// Algorithm identifies one of the supported scheduling policies.
type Algorithm int

const (
	// FCFS runs processes in input order.
	FCFS Algorithm = iota

	// SJF runs processes in ascending burst order (non-preemptive).
	SJF

	// NPP runs processes in ascending priority order (non-preemptive).
	NPP

	// SRTF picks the process with the least remaining work every time unit.
	SRTF

	// PP picks the process with the lowest priority value every time unit.
	PP

	// RoundRobin time-slices processes with a fixed quantum.
	RoundRobin
)

// All returns every supported algorithm in canonical order.
func All() []Algorithm {
	return []Algorithm{FCFS, SJF, NPP, SRTF, PP, RoundRobin}
}

// String returns the short canonical name.
func (a Algorithm) String() string {
	switch a {
	case FCFS:
		return "FCFS"
	case SJF:
		return "SJF"
	case NPP:
		return "NPP"
	case SRTF:
		return "SRTF"
	case PP:
		return "PP"
	case RoundRobin:
		return "RR"
	default:
		return "unknown"
	}
}

// Description returns a human-readable name.
func (a Algorithm) Description() string {
	switch a {
	case FCFS:
		return "First Come First Served"
	case SJF:
		return "Shortest Job First"
	case NPP:
		return "Non-Preemptive Priority"
	case SRTF:
		return "Shortest Remaining Time First"
	case PP:
		return "Preemptive Priority"
	case RoundRobin:
		return "Round Robin"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	return a >= FCFS && a <= RoundRobin
}

// NeedsPriorities reports whether the algorithm requires a priority per process.
func (a Algorithm) NeedsPriorities() bool {
	return a == NPP || a == PP
}

// NeedsQuantum reports whether the algorithm requires a time quantum.
func (a Algorithm) NeedsQuantum() bool {
	return a == RoundRobin
}

// Preemptive reports whether the algorithm may interrupt a running process.
func (a Algorithm) Preemptive() bool {
	return a == SRTF || a == PP || a == RoundRobin
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, unknownAlgorithm(a.String())
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// algorithmNames maps normalized names and aliases to algorithms.
// "priority" on its own means NPP.
var algorithmNames = map[string]Algorithm{
	"fcfs":                       FCFS,
	"firstcomefirstserved":       FCFS,
	"firstcomefirstserve":        FCFS,
	"sjf":                        SJF,
	"shortestjobfirst":           SJF,
	"npp":                        NPP,
	"priority":                   NPP,
	"nonpreemptivepriority":      NPP,
	"srtf":                       SRTF,
	"shortestremainingtimefirst": SRTF,
	"pp":                         PP,
	"preemptivepriority":         PP,
	"rr":                         RoundRobin,
	"roundrobin":                 RoundRobin,
}

// ParseAlgorithm resolves a user-supplied algorithm name. Matching ignores
// case, spaces, hyphens and underscores.
func ParseAlgorithm(name string) (Algorithm, error) {
	if a, ok := algorithmNames[normalizeName(name)]; ok {
		return a, nil
	}
	return 0, unknownAlgorithm(name)
}

// ParseAlgorithms resolves a list of names, keeping the first occurrence of
// each algorithm. The first unknown name is returned as the error.
func ParseAlgorithms(names []string) ([]Algorithm, error) {
	var algs []Algorithm
	seen := make(map[Algorithm]bool, len(algorithmNames))
	for _, name := range names {
		alg, err := ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if seen[alg] {
			continue
		}
		seen[alg] = true
		algs = append(algs, alg)
	}
	return algs, nil
}

// Names returns the canonical names of all algorithms.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.String()
	}
	return names
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}
