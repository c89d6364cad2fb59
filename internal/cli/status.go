package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/metrics"
)

func newStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize a running server from its metrics endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd.Context())
		},
	}
	config.BindStatusFlags(cmd.Flags(), a.cfg)
	return cmd
}

func (a *app) runStatus(ctx context.Context) error {
	client := &http.Client{Timeout: 5 * time.Second}
	snap, err := metrics.Scrape(ctx, client, a.cfg.MetricsURL)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Server version:  %s\n", snap.Version)
	fmt.Fprintf(a.out, "Comparisons:     %.0f\n", snap.Comparisons)
	fmt.Fprintf(a.out, "Runs stored:     %.0f\n\n", snap.RunsStored)

	if len(snap.Algorithms) == 0 {
		fmt.Fprintln(a.out, "No simulations yet.")
		return nil
	}

	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"Algorithm", "Succeeded", "Rejected", "Processes", "Time Units", "Switches", "Last Avg Wait"})
	for _, alg := range snap.Algorithms {
		table.Append([]string{
			alg.Algorithm,
			fmt.Sprintf("%.0f", alg.Succeeded),
			fmt.Sprintf("%.0f", alg.Failed),
			fmt.Sprintf("%.0f", alg.Processes),
			fmt.Sprintf("%.0f", alg.TimeUnits),
			fmt.Sprintf("%.0f", alg.ContextSwitches),
			fmt.Sprintf("%.2f", alg.LastAvgWaiting),
		})
	}
	table.Render()
	return nil
}
