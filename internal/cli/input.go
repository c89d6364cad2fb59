package cli

import (
	"strings"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/process"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/workload"
)

// input is a resolved process set and the parameters to schedule it with.
type input struct {
	Processes []process.Process
	Algorithm string // may be empty for compare
	Params    scheduler.Params
	Source    string // "flags" or the workload path
}

// loadInput resolves the process set from --ids/--bursts or --file.
// Flags override the workload's algorithm and quantum; --priorities with a
// workload overrides the priorities it carries.
func (a *app) loadInput() (*input, error) {
	cfg := a.cfg
	if err := config.ValidateInput(cfg); err != nil {
		return nil, err
	}

	in := &input{
		Algorithm: cfg.Algorithm,
		Params:    scheduler.Params{Quantum: cfg.Quantum},
		Source:    "flags",
	}

	if cfg.Workload != "" {
		wl, err := workload.Load(cfg.Workload)
		if err != nil {
			return nil, err
		}
		in.Processes = wl.Processes
		in.Source = cfg.Workload
		if in.Algorithm == "" {
			in.Algorithm = wl.Algorithm
		}
		if in.Params.Quantum == 0 {
			in.Params.Quantum = wl.Quantum
		}
		carried := wl.Priorities()
		if cfg.Priorities != "" {
			prios, err := process.ParseInts("priorities", cfg.Priorities)
			if err != nil {
				return nil, err
			}
			in.Params.Priorities = prios
			if carried != nil {
				a.logger.Info("workload_priorities_overridden", "workload", cfg.Workload, "carried", carried, "priorities", prios)
			}
		}
	} else {
		procs, err := process.ParseList(cfg.IDs, cfg.Bursts, cfg.Priorities)
		if err != nil {
			return nil, err
		}
		in.Processes = procs
	}

	if dups := process.DuplicateIDs(in.Processes); len(dups) > 0 {
		a.logger.Warn("duplicate_process_ids",
			"ids", strings.Join(dups, ","),
			"note", "processes sharing an id are reported together",
		)
	}

	a.logger.Debug("input_loaded",
		"source", in.Source,
		"processes", len(in.Processes),
		"total_burst", process.TotalBurst(in.Processes),
		"quantum", in.Params.Quantum,
	)
	return in, nil
}
