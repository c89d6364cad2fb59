package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/metrics"
	"github.com/randomizedcoder/go-cpusched/internal/process"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// =============================================================================
// Test Helpers
// =============================================================================

type cmdResult struct {
	out    string
	errOut string
	logs   string
	err    error
}

func executeContext(t *testing.T, ctx context.Context, args ...string) cmdResult {
	t.Helper()
	var out, errOut, logs bytes.Buffer
	a := &app{
		cfg:       config.DefaultConfig(),
		version:   "test",
		out:       &out,
		errOut:    &errOut,
		logWriter: &logs,
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return cmdResult{out: out.String(), errOut: errOut.String(), logs: logs.String(), err: err}
}

func execute(t *testing.T, args ...string) cmdResult {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func decodeJSONView(t *testing.T, out string) jsonOutput {
	t.Helper()
	var doc struct {
		RunID     string          `json:"run_id"`
		Algorithm string          `json:"algorithm"`
		Merged    bool            `json:"merged"`
		Trace     scheduler.Trace `json:"trace"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON output %q: %v", out, err)
	}
	return jsonOutput{RunID: doc.RunID, Algorithm: doc.Algorithm, Merged: doc.Merged, Trace: doc.Trace}
}

func isValidation(field string) func(error) bool {
	return func(err error) bool {
		var ve config.ValidationError
		return errors.As(err, &ve) && ve.Field == field
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// =============================================================================
// Tests: run
// =============================================================================

func TestRun_Views(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "gantt",
			args: []string{"run", "-a", "fcfs", "-p", "A,B", "-b", "5,3"},
			want: []string{"A", "B", "FCFS  avg waiting 2.50  avg turnaround 6.50  context switches 1"},
		},
		{
			name: "timeline",
			args: []string{"run", "-a", "sjf", "-p", "A,B", "-b", "5,3", "--view", "timeline"},
			want: []string{"SJF  avg waiting 1.50"},
		},
		{
			name: "table",
			args: []string{"run", "-a", "npp", "-p", "A,B", "-b", "5,3", "-r", "2,1", "--view", "table"},
			want: []string{"PRIORITY", "TURNAROUND", "AVERAGE"},
		},
		{
			name: "all",
			args: []string{"run", "-a", "rr", "-q", "2", "-p", "A,B", "-b", "5,3", "--view", "all"},
			want: []string{"RR Schedule Summary", "TURNAROUND", "Context Switches:       4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			if res.err != nil {
				t.Fatalf("run: %v", res.err)
			}
			for _, want := range tt.want {
				if !strings.Contains(res.out, want) {
					t.Errorf("output missing %q:\n%s", want, res.out)
				}
			}
		})
	}
}

func TestRun_JSONView(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantAlg   string
		wantTrace string
	}{
		{
			name:      "round robin canonical",
			args:      []string{"run", "-a", "round-robin", "-q", "2", "-p", "A,B", "-b", "5,3", "--view", "json"},
			wantAlg:   "RR",
			wantTrace: "A(0-2) B(2-4) A(4-6) B(6-7) A(7-8)",
		},
		{
			name:      "srtf merged",
			args:      []string{"run", "-a", "srtf", "-p", "A,B", "-b", "8,4", "--view", "json", "--merge"},
			wantAlg:   "SRTF",
			wantTrace: "B(0-4) A(4-12)",
		},
		{
			name:      "sjf stable",
			args:      []string{"run", "-a", "sjf", "-p", "A,B,C,D", "-b", "5,2,5,1", "--view", "json"},
			wantAlg:   "SJF",
			wantTrace: "D(0-1) B(1-3) A(3-8) C(8-13)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			if res.err != nil {
				t.Fatalf("run: %v", res.err)
			}
			doc := decodeJSONView(t, res.out)
			if doc.Algorithm != tt.wantAlg {
				t.Errorf("algorithm = %q, want %q", doc.Algorithm, tt.wantAlg)
			}
			if got := doc.Trace.String(); got != tt.wantTrace {
				t.Errorf("trace = %s, want %s", got, tt.wantTrace)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{
			name:  "no processes",
			args:  []string{"run", "-a", "fcfs"},
			check: isValidation("processes"),
		},
		{
			name:  "no algorithm",
			args:  []string{"run", "-p", "A", "-b", "1"},
			check: isValidation("algorithm"),
		},
		{
			name:  "unknown algorithm",
			args:  []string{"run", "-a", "lottery", "-p", "A", "-b", "1"},
			check: isValidation("algorithm"),
		},
		{
			name:  "bad view",
			args:  []string{"run", "-a", "fcfs", "-p", "A", "-b", "1", "--view", "pie"},
			check: isValidation("view"),
		},
		{
			name:  "round robin without quantum",
			args:  []string{"run", "-a", "rr", "-p", "A", "-b", "1"},
			check: func(err error) bool { return errors.Is(err, scheduler.ErrInvalidInput) },
		},
		{
			name:  "priority without priorities",
			args:  []string{"run", "-a", "pp", "-p", "A,B", "-b", "1,2"},
			check: func(err error) bool { return errors.Is(err, scheduler.ErrInvalidInput) },
		},
		{
			name: "burst count mismatch",
			args: []string{"run", "-a", "fcfs", "-p", "A,B", "-b", "1"},
			check: func(err error) bool {
				var pe *process.ParseError
				return errors.As(err, &pe) && pe.Field == "bursts"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			if res.err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(res.err) {
				t.Errorf("unexpected error: %v", res.err)
			}
			if res.out != "" {
				t.Errorf("output written on error:\n%s", res.out)
			}
		})
	}
}

func TestRun_DuplicateIDsWarn(t *testing.T) {
	res := execute(t, "run", "-a", "fcfs", "-p", "A,A,B", "-b", "1,2,3")
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if !strings.Contains(res.logs, "duplicate_process_ids") {
		t.Errorf("no duplicate warning logged:\n%s", res.logs)
	}
}

func TestRun_Workload(t *testing.T) {
	yamlPath := writeFile(t, "w.yaml", `algorithm: rr
quantum: 2
processes:
  - {id: A, burst: 5, priority: 2}
  - {id: B, burst: 3, priority: 1}
`)

	t.Run("defaults from file", func(t *testing.T) {
		res := execute(t, "run", "-f", yamlPath, "--view", "json")
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		doc := decodeJSONView(t, res.out)
		if doc.Algorithm != "RR" || doc.Trace.String() != "A(0-2) B(2-4) A(4-6) B(6-7) A(7-8)" {
			t.Errorf("got %s %s", doc.Algorithm, doc.Trace)
		}
	})

	t.Run("flags override", func(t *testing.T) {
		res := execute(t, "run", "-f", yamlPath, "-a", "npp", "--view", "json")
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		doc := decodeJSONView(t, res.out)
		if doc.Trace.String() != "B(0-3) A(3-8)" {
			t.Errorf("NPP with carried priorities = %s", doc.Trace)
		}
	})

	t.Run("priorities override", func(t *testing.T) {
		res := execute(t, "run", "-f", yamlPath, "-a", "npp", "-r", "1,2", "--view", "json")
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		doc := decodeJSONView(t, res.out)
		if doc.Trace.String() != "A(0-5) B(5-8)" {
			t.Errorf("NPP with overridden priorities = %s", doc.Trace)
		}
		if !strings.Contains(res.logs, "workload_priorities_overridden") {
			t.Errorf("override not logged:\n%s", res.logs)
		}
	})

	t.Run("priorities without carried values", func(t *testing.T) {
		csvPath := writeFile(t, "plain.csv", "id,burst\nA,5\nB,3\n")
		res := execute(t, "run", "-f", csvPath, "-a", "npp", "-r", "2,1", "--view", "json")
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		if doc := decodeJSONView(t, res.out); doc.Trace.String() != "B(0-3) A(3-8)" {
			t.Errorf("NPP from csv with -r = %s", doc.Trace)
		}
		if strings.Contains(res.logs, "workload_priorities_overridden") {
			t.Errorf("override logged with nothing carried:\n%s", res.logs)
		}
	})

	t.Run("csv", func(t *testing.T) {
		csvPath := writeFile(t, "w.csv", "id,burst\nA,5\nB,3\n")
		res := execute(t, "run", "-f", csvPath, "-a", "sjf", "--view", "json")
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		if doc := decodeJSONView(t, res.out); doc.Trace.String() != "B(0-3) A(3-8)" {
			t.Errorf("SJF from csv = %s", doc.Trace)
		}
	})

	t.Run("file and inline", func(t *testing.T) {
		res := execute(t, "run", "-f", yamlPath, "-p", "A", "-b", "1")
		var ve config.ValidationError
		if !errors.As(res.err, &ve) || ve.Field != "file" {
			t.Errorf("err = %v, want file validation error", res.err)
		}
	})
}

// =============================================================================
// Tests: trace files, history and replay
// =============================================================================

func TestRun_TraceOutAndReplay(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "rr.jsonl")
	res := execute(t, "run", "-a", "rr", "-q", "2", "-p", "A,B", "-b", "5,3", "--trace-out", tracePath)
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}

	saved, err := scheduler.LoadTrace(tracePath)
	if err != nil {
		t.Fatalf("LoadTrace: %v", err)
	}
	if saved.String() != "A(0-2) B(2-4) A(4-6) B(6-7) A(7-8)" {
		t.Errorf("saved trace = %s", saved)
	}

	res = execute(t, "replay", "--trace", tracePath, "--view", "json", "--merge")
	if res.err != nil {
		t.Fatalf("replay: %v", res.err)
	}
	doc := decodeJSONView(t, res.out)
	if doc.Algorithm != "trace" || !doc.Merged || len(doc.Trace) != 5 {
		t.Errorf("replay = %+v", doc)
	}
}

func TestReplay_Errors(t *testing.T) {
	gap := writeFile(t, "gap.jsonl", `{"process_id":"A","start":0,"end":2}
{"process_id":"B","start":3,"end":4}
`)
	empty := writeFile(t, "empty.jsonl", "")

	tests := []struct {
		name string
		args []string
	}{
		{"nothing to replay", []string{"replay"}},
		{"both sources", []string{"replay", "--trace", gap, "run_x"}},
		{"gap in trace", []string{"replay", "--trace", gap}},
		{"empty trace", []string{"replay", "--trace", empty}},
		{"missing file", []string{"replay", "--trace", filepath.Join(t.TempDir(), "none.jsonl")}},
		{"run id without db", []string{"replay", "run_x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := execute(t, tt.args...); res.err == nil {
				t.Errorf("replay %v succeeded", tt.args)
			}
		})
	}
}

func TestHistoryAndReplay(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	res := execute(t, "history", "--db", db)
	if res.err != nil {
		t.Fatalf("history on empty db: %v", res.err)
	}
	if !strings.Contains(res.out, "No runs found.") {
		t.Errorf("empty history output = %q", res.out)
	}

	res = execute(t, "run", "-a", "sjf", "-p", "A,B", "-b", "5,3", "--db", db, "--view", "json")
	if res.err != nil {
		t.Fatalf("run --db: %v", res.err)
	}
	runID := decodeJSONView(t, res.out).RunID
	if !strings.HasPrefix(runID, "run_") {
		t.Fatalf("run_id = %q", runID)
	}
	if res := execute(t, "run", "-a", "fcfs", "-p", "A,B", "-b", "5,3", "--db", db); res.err != nil {
		t.Fatalf("second run: %v", res.err)
	}

	res = execute(t, "history", "--db", db)
	if res.err != nil {
		t.Fatalf("history: %v", res.err)
	}
	for _, want := range []string{runID, "SJF", "FCFS", "AVG WAIT"} {
		if !strings.Contains(res.out, want) {
			t.Errorf("history missing %q:\n%s", want, res.out)
		}
	}

	res = execute(t, "history", "--db", db, "--limit", "1", "-a", "sjf")
	if res.err != nil {
		t.Fatalf("history filtered: %v", res.err)
	}
	if strings.Contains(res.out, "FCFS") || !strings.Contains(res.out, runID) {
		t.Errorf("filtered history:\n%s", res.out)
	}

	res = execute(t, "replay", "--db", db, runID, "--view", "json")
	if res.err != nil {
		t.Fatalf("replay: %v", res.err)
	}
	doc := decodeJSONView(t, res.out)
	if doc.RunID != runID || doc.Algorithm != "SJF" || doc.Trace.String() != "B(0-3) A(3-8)" {
		t.Errorf("replayed %+v", doc)
	}

	if res := execute(t, "replay", "--db", db, "run_missing"); res.err == nil {
		t.Error("replay of unknown run succeeded")
	}
}

func TestHistory_RequiresDB(t *testing.T) {
	res := execute(t, "history")
	var ve config.ValidationError
	if !errors.As(res.err, &ve) || ve.Field != "db" {
		t.Errorf("err = %v, want db validation error", res.err)
	}
}

// =============================================================================
// Tests: compare
// =============================================================================

func TestCompare(t *testing.T) {
	res := execute(t, "compare", "-p", "A,B", "-b", "8,4")
	if res.err != nil {
		t.Fatalf("compare: %v", res.err)
	}
	if !strings.Contains(res.out, "Algorithm Comparison") {
		t.Fatalf("missing header:\n%s", res.out)
	}

	var marked []string
	for _, line := range strings.Split(res.out, "\n") {
		if strings.HasPrefix(line, "*") {
			marked = append(marked, strings.Fields(line)[1])
		}
	}
	// SJF and SRTF both reach the minimum average wait of 2
	if strings.Join(marked, ",") != "SJF,SRTF" {
		t.Errorf("marked = %v, want SJF,SRTF\n%s", marked, res.out)
	}
	if strings.Contains(res.out, "Skipped") {
		t.Errorf("applicable-only comparison lists skipped algorithms:\n%s", res.out)
	}
}

func TestCompare_Selected(t *testing.T) {
	res := execute(t, "compare", "-p", "A,B", "-b", "8,4", "--algorithms", "fcfs,rr")
	if res.err != nil {
		t.Fatalf("compare: %v", res.err)
	}
	if !strings.Contains(res.out, "Skipped") || !strings.Contains(res.out, "quantum") {
		t.Errorf("RR without quantum not listed as skipped:\n%s", res.out)
	}
}

func TestCompare_NothingScheduled(t *testing.T) {
	res := execute(t, "compare", "-p", "A", "-b", "1", "--algorithms", "rr,pp")
	if !errors.Is(res.err, errNothingScheduled) {
		t.Errorf("err = %v, want errNothingScheduled", res.err)
	}
}

func TestCompare_UnknownAlgorithm(t *testing.T) {
	res := execute(t, "compare", "-p", "A", "-b", "1", "--algorithms", "fcfs,bogus")
	var ve config.ValidationError
	if !errors.As(res.err, &ve) || ve.Field != "algorithms" {
		t.Errorf("err = %v, want algorithms validation error", res.err)
	}
}

// =============================================================================
// Tests: serve, status and version
// =============================================================================

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan cmdResult, 1)
	go func() {
		done <- executeContext(t, ctx, "serve", "--listen", "127.0.0.1:0", "--metrics", "")
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("serve: %v", res.err)
		}
		if !strings.Contains(res.errOut, "go-cpusched Exit Summary") {
			t.Errorf("exit summary not printed:\n%s", res.errOut)
		}
		if !strings.Contains(res.logs, "api_server_starting") {
			t.Errorf("startup not logged:\n%s", res.logs)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestStatus(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := metrics.NewCollectorWithRegistry(metrics.CollectorConfig{Version: "v-status"}, registry)
	c.RecordSimulation(metrics.SimulationUpdate{Algorithm: "STATUS_CLI", Processes: 3, Makespan: 9, AvgWaiting: 1.5})

	ts := httptest.NewServer(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	defer ts.Close()

	res := execute(t, "status", "--metrics-url", ts.URL+"/metrics")
	if res.err != nil {
		t.Fatalf("status: %v", res.err)
	}
	for _, want := range []string{"Server version:  v-status", "STATUS_CLI", "1.50"} {
		if !strings.Contains(res.out, want) {
			t.Errorf("status output missing %q:\n%s", want, res.out)
		}
	}
}

func TestStatus_Unreachable(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL + "/metrics"
	ts.Close()

	if res := execute(t, "status", "--metrics-url", url); res.err == nil {
		t.Error("status against a closed server succeeded")
	}
}

func TestVersion(t *testing.T) {
	res := execute(t, "version")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.HasPrefix(res.out, "go-cpusched test (") {
		t.Errorf("version output = %q", res.out)
	}
}

// =============================================================================
// Tests: helpers
// =============================================================================

func TestProcessesFromTrace(t *testing.T) {
	trace := scheduler.Trace{
		{ProcessID: "B", Start: 0, End: 2},
		{ProcessID: "A", Start: 2, End: 3},
		{ProcessID: "B", Start: 3, End: 4},
	}
	procs := processesFromTrace(trace)
	if len(procs) != 2 || procs[0].ID != "B" || procs[0].Burst != 3 || procs[1].ID != "A" || procs[1].Burst != 1 {
		t.Errorf("processesFromTrace = %+v", procs)
	}
	if err := trace.Validate(procs); err != nil {
		t.Errorf("derived processes do not validate: %v", err)
	}
}
