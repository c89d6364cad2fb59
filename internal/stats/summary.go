package stats

import (
	"fmt"
	"strings"
)

const (
	ruleWidth = 79

	ruleHeavy = "═══════════════════════════════════════════════════════════════════════════════\n"
	ruleLight = "───────────────────────────────────────────────────────────────────────────────\n"
)

// Entry is one algorithm's outcome in a comparison.
type Entry struct {
	Algorithm string
	Report    *Report // nil when Err is set
	Err       error
}

// FormatReport formats a single algorithm's report.
func FormatReport(algorithm string, r *Report) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(ruleHeavy)
	fmt.Fprintf(&b, "%s\n", centered(algorithm+" Schedule Summary"))
	b.WriteString(ruleHeavy + "\n")

	fmt.Fprintf(&b, "Processes:              %d\n", len(r.Processes))
	fmt.Fprintf(&b, "Makespan:               %d\n", r.Makespan)
	fmt.Fprintf(&b, "Context Switches:       %d\n", r.ContextSwitches)
	fmt.Fprintf(&b, "Throughput:             %s\n\n", FormatThroughput(r.Throughput))

	b.WriteString(ruleLight)
	b.WriteString("                                  Averages\n")
	b.WriteString(ruleLight + "\n")
	fmt.Fprintf(&b, "  Waiting:              %.2f\n", r.AvgWaiting)
	fmt.Fprintf(&b, "  Turnaround:           %.2f\n", r.AvgTurnaround)
	fmt.Fprintf(&b, "  Response:             %.2f\n\n", r.AvgResponse)

	b.WriteString(ruleLight)
	b.WriteString("                           Waiting Time Distribution\n")
	b.WriteString(ruleLight + "\n")
	fmt.Fprintf(&b, "  P50 (median):         %.1f\n", r.WaitingP50)
	fmt.Fprintf(&b, "  P95:                  %.1f\n", r.WaitingP95)
	fmt.Fprintf(&b, "  P99:                  %.1f\n", r.WaitingP99)
	fmt.Fprintf(&b, "  Max:                  %d\n\n", r.MaxWaiting)

	b.WriteString(ruleHeavy)
	return b.String()
}

// FormatComparison formats a side-by-side table of several algorithms.
// Failed entries are listed with their error. The best (lowest) average
// waiting time is marked with '*'.
func FormatComparison(entries []Entry) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(ruleHeavy)
	b.WriteString("                           Algorithm Comparison\n")
	b.WriteString(ruleHeavy + "\n")

	best := bestWaiting(entries)

	fmt.Fprintf(&b, "  %-6s %10s %12s %10s %10s %9s\n", "Algo", "Avg Wait", "Avg Turn", "Avg Resp", "Switches", "Makespan")
	b.WriteString("  " + strings.Repeat("─", 62) + "\n")
	for _, e := range entries {
		if e.Err != nil || e.Report == nil {
			continue
		}
		mark := " "
		if e.Report.AvgWaiting == best {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %-6s %10.2f %12.2f %10.2f %10d %9d\n",
			mark+" ",
			e.Algorithm,
			e.Report.AvgWaiting,
			e.Report.AvgTurnaround,
			e.Report.AvgResponse,
			e.Report.ContextSwitches,
			e.Report.Makespan,
		)
	}
	b.WriteString("\n")

	var failed []Entry
	for _, e := range entries {
		if e.Err != nil {
			failed = append(failed, e)
		}
	}
	if len(failed) > 0 {
		b.WriteString(ruleLight)
		b.WriteString("                                  Skipped\n")
		b.WriteString(ruleLight + "\n")
		for _, e := range failed {
			fmt.Fprintf(&b, "  %-6s %v\n", e.Algorithm, e.Err)
		}
		b.WriteString("\n")
	}

	b.WriteString(ruleHeavy)
	return b.String()
}

// FormatThroughput formats processes per time unit.
func FormatThroughput(rate float64) string {
	return fmt.Sprintf("%.3f/t", rate)
}

func bestWaiting(entries []Entry) float64 {
	best := -1.0
	for _, e := range entries {
		if e.Err != nil || e.Report == nil {
			continue
		}
		if best < 0 || e.Report.AvgWaiting < best {
			best = e.Report.AvgWaiting
		}
	}
	return best
}

// centered pads s on the left so it sits mid-rule.
func centered(s string) string {
	pad := (ruleWidth - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
