package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders the per-process schedule table with averages in the
// footer.
func WriteTable(w io.Writer, r *Report) {
	rows := make([][]string, len(r.Processes))
	for i, ps := range r.Processes {
		prio := "-"
		if ps.Priority != nil {
			prio = strconv.Itoa(*ps.Priority)
		}
		rows[i] = []string{
			ps.ID,
			prio,
			strconv.Itoa(ps.Burst),
			strconv.Itoa(ps.FirstStart),
			strconv.Itoa(ps.Completion),
			strconv.Itoa(ps.Turnaround),
			strconv.Itoa(ps.Waiting),
			strconv.Itoa(ps.Slices),
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Burst", "Start", "Exit", "Turnaround", "Wait", "Slices"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "Average",
		fmt.Sprintf("%.2f", r.AvgTurnaround),
		fmt.Sprintf("%.2f", r.AvgWaiting),
		fmt.Sprintf("%d switches", r.ContextSwitches),
	})
	table.Render()
}
