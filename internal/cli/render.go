package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/stats"
	"github.com/randomizedcoder/go-cpusched/internal/tui"
)

// jsonOutput is the document written by --view json.
type jsonOutput struct {
	RunID     string          `json:"run_id,omitempty"`
	Algorithm string          `json:"algorithm"`
	Merged    bool            `json:"merged"`
	Trace     scheduler.Trace `json:"trace"`
	Stats     *stats.Report   `json:"stats"`
}

// result is one finished simulation ready for display.
type result struct {
	RunID     string
	Algorithm string
	Trace     scheduler.Trace // canonical
	Report    *stats.Report
}

// render writes res in the configured view.
func (a *app) render(w io.Writer, res result) error {
	shown := res.Trace
	if a.cfg.Merge {
		shown = res.Trace.Merge()
	}
	width := a.cfg.Width

	switch a.cfg.View {
	case config.ViewGantt:
		fmt.Fprintf(w, "%s\n\n", tui.RenderGantt(shown, width))
		fmt.Fprintln(w, summaryLine(res))
	case config.ViewTimeline:
		fmt.Fprintf(w, "%s\n\n", tui.RenderTimeline(shown, width))
		fmt.Fprintln(w, summaryLine(res))
	case config.ViewTable:
		stats.WriteTable(w, res.Report)
	case config.ViewJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			RunID:     res.RunID,
			Algorithm: res.Algorithm,
			Merged:    a.cfg.Merge,
			Trace:     shown,
			Stats:     res.Report,
		})
	case config.ViewAll:
		fmt.Fprintf(w, "%s\n\n", tui.RenderGantt(shown, width))
		fmt.Fprintf(w, "%s\n\n", tui.RenderTimeline(shown, width))
		stats.WriteTable(w, res.Report)
		fmt.Fprint(w, stats.FormatReport(res.Algorithm, res.Report))
	default:
		return fmt.Errorf("unknown view %q", a.cfg.View)
	}
	return nil
}

func summaryLine(res result) string {
	return fmt.Sprintf("%s  avg waiting %.2f  avg turnaround %.2f  context switches %d",
		res.Algorithm, res.Report.AvgWaiting, res.Report.AvgTurnaround, res.Report.ContextSwitches)
}
