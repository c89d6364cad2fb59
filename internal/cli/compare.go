package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/stats"
)

// errNothingScheduled is returned when every compared algorithm failed.
var errNothingScheduled = errors.New("no algorithm could schedule the input")

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several algorithms over the same processes",
		Long: "compare runs the selected algorithms (default: every algorithm the input\n" +
			"satisfies) in parallel and prints their average waiting, turnaround and\n" +
			"response times side by side. The lowest average waiting time is marked.",
		Example: `  go-cpusched compare -p A,B,C -b 8,4,1
  go-cpusched compare -p A,B,C -b 8,4,1 -r 3,1,2 -q 2
  go-cpusched compare -f workload.csv --algorithms fcfs,sjf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompare(cmd.Context())
		},
	}
	config.BindCompareFlags(cmd.Flags(), a.cfg)
	return cmd
}

func (a *app) runCompare(ctx context.Context) error {
	in, err := a.loadInput()
	if err != nil {
		return err
	}

	algs, err := scheduler.ParseAlgorithms(a.cfg.CompareAlgorithms)
	if err != nil {
		return err
	}
	if len(algs) == 0 {
		algs = scheduler.Applicable(in.Processes, in.Params)
		if len(algs) == 0 {
			return scheduler.Check(in.Processes, scheduler.FCFS, in.Params)
		}
	}

	start := time.Now()
	results := scheduler.Compare(ctx, in.Processes, in.Params, algs...)

	entries := make([]stats.Entry, len(results))
	succeeded := 0
	for i, res := range results {
		entries[i] = stats.Entry{Algorithm: res.Algorithm.String(), Err: res.Err}
		if res.Err != nil {
			a.logger.Debug("algorithm_skipped", "algorithm", res.Algorithm.String(), "error", res.Err)
			continue
		}
		entries[i].Report = stats.Compute(in.Processes, res.Trace)
		a.logger.Debug("algorithm_complete", "algorithm", res.Algorithm.String(), "duration", res.Duration.String())
		succeeded++
	}

	a.logger.Info("comparison_complete",
		"algorithms", len(algs),
		"succeeded", succeeded,
		"duration", time.Since(start).String(),
	)

	fmt.Fprint(a.out, stats.FormatComparison(entries))
	if succeeded == 0 {
		return errNothingScheduled
	}
	return nil
}
