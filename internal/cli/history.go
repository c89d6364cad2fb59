package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(cmd.Context(), algorithm)
		},
	}
	config.BindHistoryFlags(cmd.Flags(), a.cfg)
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Only list runs of this algorithm")
	return cmd
}

func (a *app) runHistory(ctx context.Context, algorithm string) error {
	opts := store.ListOptions{Limit: a.cfg.HistoryLimit}
	if algorithm != "" {
		alg, err := scheduler.ParseAlgorithm(algorithm)
		if err != nil {
			return err
		}
		opts.Algorithm = alg.String()
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, total, err := st.ListRuns(ctx, opts)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs found.")
		return nil
	}

	writeRunsTable(a.out, runs)
	if total > len(runs) {
		fmt.Fprintf(a.out, "\n(%d of %d shown)\n", len(runs), total)
	}
	return nil
}

func writeRunsTable(w io.Writer, runs []*store.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run", "Algorithm", "Quantum", "Processes", "Makespan", "Avg Wait", "Avg Turnaround", "Switches", "Created"})
	for _, run := range runs {
		quantum := "-"
		if run.Quantum > 0 {
			quantum = strconv.Itoa(run.Quantum)
		}
		table.Append([]string{
			run.ID,
			run.Algorithm,
			quantum,
			strconv.Itoa(len(run.Processes)),
			strconv.Itoa(run.Makespan),
			fmt.Sprintf("%.2f", run.AvgWaiting),
			fmt.Sprintf("%.2f", run.AvgTurnaround),
			strconv.Itoa(run.ContextSwitches),
			run.CreatedAt.Local().Format(time.DateTime),
		})
	}
	table.Render()
}
