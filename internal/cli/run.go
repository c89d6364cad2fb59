package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/stats"
	"github.com/randomizedcoder/go-cpusched/internal/store"
	"github.com/randomizedcoder/go-cpusched/internal/tui"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one scheduling algorithm",
		Example: `  go-cpusched run -a fcfs -p A,B,C -b 5,3,1
  go-cpusched run -a rr -q 2 -p A,B -b 5,3 --view timeline
  go-cpusched run -a pp -p A,B,C -b 4,2,3 -r 2,1,3 --tui
  go-cpusched run -f workload.yaml --view json --db runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.flushLogs()
			return a.runSimulation(cmd.Context())
		},
	}
	config.BindRunFlags(cmd.Flags(), a.cfg)
	return cmd
}

func (a *app) runSimulation(ctx context.Context) error {
	in, err := a.loadInput()
	if err != nil {
		return err
	}
	if in.Algorithm == "" {
		return config.ValidationError{Field: "algorithm", Message: "required (use --algorithm or set it in the workload file)"}
	}

	start := time.Now()
	alg, trace, err := scheduler.SimulateByName(in.Processes, in.Algorithm, in.Params)
	if err != nil {
		return err
	}
	report := stats.Compute(in.Processes, trace)

	a.logger.Info("simulation_complete",
		"algorithm", alg.String(),
		"processes", len(in.Processes),
		"intervals", len(trace),
		"makespan", report.Makespan,
		"context_switches", report.ContextSwitches,
		"avg_waiting", report.AvgWaiting,
		"duration", time.Since(start).String(),
	)

	res := result{Algorithm: alg.String(), Trace: trace, Report: report}

	if a.cfg.TraceOut != "" {
		if err := scheduler.SaveTrace(a.cfg.TraceOut, trace); err != nil {
			return err
		}
		a.logger.Info("trace_written", "file", a.cfg.TraceOut, "intervals", len(trace))
	}

	if a.cfg.DBPath != "" {
		run := store.NewRun(alg, in.Processes, in.Params, trace)
		if err := a.saveRun(ctx, run); err != nil {
			return err
		}
		res.RunID = run.ID
	}

	if a.cfg.TUI {
		return a.runTUI(ctx, res)
	}
	return a.render(a.out, res)
}

// saveRun records run in the history database at --db.
func (a *app) saveRun(ctx context.Context, run *store.Run) error {
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveRun(ctx, run); err != nil {
		return err
	}
	a.logger.Info("run_saved", "run_id", run.ID, "db", a.cfg.DBPath)
	return nil
}

// openStore opens and migrates the database at --db.
func (a *app) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	if a.cfg.DBPath == "" {
		return nil, config.ValidationError{Field: "db", Message: "required"}
	}
	st, err := store.NewSQLiteStore(a.cfg.DBPath, a.logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate %s: %w", a.cfg.DBPath, err)
	}
	return st, nil
}

// runTUI replays res in the interactive view until the user quits or a
// SIGINT/SIGTERM arrives.
func (a *app) runTUI(ctx context.Context, res result) error {
	model := tui.New(tui.Config{
		Algorithm: res.Algorithm,
		Trace:     res.Trace,
		Report:    res.Report,
		Merge:     a.cfg.Merge,
		Autoplay:  true,
	})
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithOutput(a.out),
		tea.WithoutSignalHandler(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigCh:
			a.logger.Info("received_signal", "signal", sig.String())
			tui.SendQuit(p)
		case <-ctx.Done():
			tui.SendQuit(p)
		case <-done:
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	a.logger.Debug("tui_exited", "algorithm", res.Algorithm)
	return nil
}
