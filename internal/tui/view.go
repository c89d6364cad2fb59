package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/randomizedcoder/go-cpusched/internal/stats"
)

// =============================================================================
// Main View Rendering
// =============================================================================

func (m Model) renderReplayView() string {
	sections := []string{
		m.renderHeader(),
		m.renderChart(),
		m.renderStatus(),
		m.renderProcesses(),
	}
	if m.Done() && m.report != nil {
		sections = append(sections, m.renderReport())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// Header
// =============================================================================

func (m Model) renderHeader() string {
	mode := "canonical"
	if m.merge {
		mode = "merged"
	}
	header := fmt.Sprintf(
		" go-cpusched │ %s │ t=%d/%d │ %s ",
		m.algorithm,
		m.clock,
		m.Makespan(),
		mode,
	)
	return headerStyle.Render(header)
}

// =============================================================================
// Chart
// =============================================================================

func (m Model) renderChart() string {
	width := max(m.width-4, minChartWidth)
	chart := renderGantt(m.Visible(), m.Makespan(), width, m.pal)
	if chart == "" {
		chart = dimStyle.Render("(press → or space to start)")
	}
	return boxStyle.Render(chart)
}

// =============================================================================
// Status
// =============================================================================

func (m Model) renderStatus() string {
	running := statusOK.Render("finished")
	if id, ok := m.Running(); ok && !m.Done() {
		running = statusRunning.Render("▶ " + id)
	}

	state := "paused"
	if m.playing {
		state = "playing"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		RenderKeyValue("Running", running),
		RenderKeyValue("Autoplay", state),
		RenderKeyValue("Progress", RenderProgressBar(m.progress(), 30)),
	)
}

func (m Model) progress() float64 {
	if m.Makespan() == 0 {
		return 0
	}
	return float64(m.clock) / float64(m.Makespan())
}

// =============================================================================
// Per-process progress
// =============================================================================

func (m Model) renderProcesses() string {
	lines := []string{sectionHeaderStyle.Render("Processes")}

	idWidth := 0
	for _, id := range m.order {
		idWidth = max(idWidth, lipgloss.Width(id))
	}

	for _, id := range m.order {
		total := m.totals[id]
		done := m.Executed(id)
		ratio := 0.0
		if total > 0 {
			ratio = float64(done) / float64(total)
		}
		label := m.pal.render(id, fmt.Sprintf("%-*s", idWidth, id))
		status := mutedStyle.Render(fmt.Sprintf(" %d/%d", done, total))
		if done == total {
			status = statusOK.Render(" ✓ done")
			if ps, ok := m.lookup(id); ok {
				status += mutedStyle.Render(fmt.Sprintf("  wait %d", ps.Waiting))
			}
		}
		lines = append(lines, label+"  "+RenderProgressBar(ratio, 20)+status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// lookup returns the report figures for id once the replay has finished.
func (m Model) lookup(id string) (stats.ProcessStats, bool) {
	if m.report == nil || !m.Done() {
		return stats.ProcessStats{}, false
	}
	return m.report.Lookup(id)
}

// =============================================================================
// Report
// =============================================================================

func (m Model) renderReport() string {
	r := m.report
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render("Statistics"),
		RenderKeyValue("Avg waiting", fmt.Sprintf("%.2f", r.AvgWaiting)),
		RenderKeyValue("Avg turnaround", fmt.Sprintf("%.2f", r.AvgTurnaround)),
		RenderKeyValue("Avg response", fmt.Sprintf("%.2f", r.AvgResponse)),
		RenderKeyValue("Context switches", fmt.Sprintf("%d", r.ContextSwitches)),
	)
}

// =============================================================================
// Footer
// =============================================================================

func (m Model) renderFooter() string {
	shortcuts := []string{
		"←/→: step",
		"space: play/pause",
		"m: merge",
		"g/G: start/end",
		"q: quit",
	}
	return footerStyle.Render(dimStyle.Render(strings.Join(shortcuts, " │ ")))
}
