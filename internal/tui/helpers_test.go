package tui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/randomizedcoder/go-cpusched/internal/process"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// plain strips terminal styling so assertions see only text.
func plain(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func plainLines(s string) []string {
	return strings.Split(plain(s), "\n")
}

func mustTrace(t *testing.T, alg scheduler.Algorithm, quantum int, bursts ...int) scheduler.Trace {
	t.Helper()
	procs := make([]process.Process, len(bursts))
	for i, b := range bursts {
		procs[i] = process.Process{ID: string(rune('A' + i)), Burst: b}
	}
	trace, err := scheduler.Simulate(procs, alg, scheduler.Params{Quantum: quantum})
	if err != nil {
		t.Fatalf("Simulate(%s) error = %v", alg, err)
	}
	return trace
}
