package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/process"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/stats"
)

func newReplayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [run-id]",
		Short: "Render a stored run or a saved trace file",
		Example: `  go-cpusched replay --db runs.db run_3f0c...
  go-cpusched replay --trace schedule.jsonl --view timeline
  go-cpusched replay --trace schedule.jsonl --tui`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.flushLogs()
			var res result
			var err error
			switch {
			case a.cfg.TraceIn != "" && len(args) == 0:
				res, err = a.loadTraceFile()
			case a.cfg.TraceIn == "" && len(args) == 1:
				res, err = a.loadStoredRun(cmd.Context(), args[0])
			default:
				return config.ValidationError{Field: "replay", Message: "give either a run id with --db or --trace, not both"}
			}
			if err != nil {
				return err
			}

			if a.cfg.TUI {
				return a.runTUI(cmd.Context(), res)
			}
			return a.render(a.out, res)
		},
	}
	config.BindReplayFlags(cmd.Flags(), a.cfg)
	return cmd
}

func (a *app) loadStoredRun(ctx context.Context, id string) (result, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return result{}, err
	}
	defer st.Close()

	run, err := st.GetRun(ctx, id)
	if err != nil {
		return result{}, err
	}
	if run == nil {
		return result{}, fmt.Errorf("run %q not found in %s", id, a.cfg.DBPath)
	}
	return result{
		RunID:     run.ID,
		Algorithm: run.Algorithm,
		Trace:     run.Trace,
		Report:    stats.Compute(run.Processes, run.Trace),
	}, nil
}

// loadTraceFile reads --trace. The file carries no process list, so each
// process is taken to have arrived at 0 with a burst equal to its total
// execution time in the trace.
func (a *app) loadTraceFile() (result, error) {
	trace, err := scheduler.LoadTrace(a.cfg.TraceIn)
	if err != nil {
		return result{}, err
	}
	if len(trace) == 0 {
		return result{}, fmt.Errorf("%s: trace has no intervals", a.cfg.TraceIn)
	}
	procs := processesFromTrace(trace)
	if err := trace.Validate(procs); err != nil {
		return result{}, fmt.Errorf("%s: %w", a.cfg.TraceIn, err)
	}
	a.logger.Debug("trace_loaded", "file", a.cfg.TraceIn, "intervals", len(trace), "processes", len(procs))
	return result{
		Algorithm: "trace",
		Trace:     trace,
		Report:    stats.Compute(procs, trace),
	}, nil
}

func processesFromTrace(trace scheduler.Trace) []process.Process {
	totals := trace.Totals()
	seen := make(map[string]bool, len(totals))
	var procs []process.Process
	for _, id := range trace.Order() {
		if seen[id] {
			continue
		}
		seen[id] = true
		procs = append(procs, process.Process{ID: id, Burst: totals[id]})
	}
	return procs
}
