package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
	"github.com/randomizedcoder/go-cpusched/internal/stats"
)

// DefaultTickInterval is the autoplay speed: one time unit per tick.
const DefaultTickInterval = 250 * time.Millisecond

// =============================================================================
// Messages
// =============================================================================

// TickMsg advances autoplay by one time unit.
type TickMsg time.Time

// QuitMsg signals the TUI should exit.
type QuitMsg struct{}

// =============================================================================
// Model
// =============================================================================

// Model replays an execution trace one time unit at a time.
type Model struct {
	// Configuration
	algorithm string
	trace     scheduler.Trace // canonical, as produced by the engine
	merged    scheduler.Trace
	report    *stats.Report
	interval  time.Duration

	// Replay state
	clock   int
	playing bool
	merge   bool

	// Derived once from the trace
	order  []string
	totals map[string]int
	pal    palette

	// Display options
	width  int
	height int

	quitting bool
}

// Config holds TUI configuration.
type Config struct {
	Algorithm    string
	Trace        scheduler.Trace
	Report       *stats.Report // optional; shown once the replay finishes
	Merge        bool          // start in merged view
	Autoplay     bool
	TickInterval time.Duration // 0 = DefaultTickInterval
}

// New creates a new replay model positioned at time 0.
func New(cfg Config) Model {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	order := firstSeen(cfg.Trace.Order())
	return Model{
		algorithm: cfg.Algorithm,
		trace:     cfg.Trace,
		merged:    cfg.Trace.Merge(),
		report:    cfg.Report,
		interval:  interval,
		playing:   cfg.Autoplay,
		merge:     cfg.Merge,
		order:     order,
		totals:    cfg.Trace.Totals(),
		pal:       newPalette(order),
		width:     80,
		height:    24,
	}
}

// =============================================================================
// Bubble Tea Interface
// =============================================================================

// Init starts autoplay when requested.
func (m Model) Init() tea.Cmd {
	if m.playing {
		return m.tickCmd()
	}
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "right", "l":
			m.playing = false
			m.clock = min(m.clock+1, m.Makespan())
		case "left", "h":
			m.playing = false
			m.clock = max(m.clock-1, 0)
		case "home", "g":
			m.playing = false
			m.clock = 0
		case "end", "G":
			m.playing = false
			m.clock = m.Makespan()
		case "m":
			m.merge = !m.merge
		case " ", "space":
			if m.Done() {
				m.clock = 0
			}
			m.playing = !m.playing
			if m.playing {
				return m, m.tickCmd()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if !m.playing {
			return m, nil
		}
		m.clock = min(m.clock+1, m.Makespan())
		if m.Done() {
			m.playing = false
			return m, nil
		}
		return m, m.tickCmd()

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderReplayView()
}

// =============================================================================
// Commands
// =============================================================================

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// =============================================================================
// Accessors
// =============================================================================

// Clock returns the replay position in time units.
func (m Model) Clock() int {
	return m.clock
}

// Makespan returns the length of the trace in time units.
func (m Model) Makespan() int {
	return m.trace.Makespan()
}

// Playing reports whether autoplay is running.
func (m Model) Playing() bool {
	return m.playing
}

// Merged reports whether the merged view is shown.
func (m Model) Merged() bool {
	return m.merge
}

// Done reports whether the replay reached the end of the trace.
func (m Model) Done() bool {
	return m.clock >= m.Makespan()
}

// Running returns the process executing during [clock, clock+1).
func (m Model) Running() (string, bool) {
	return m.trace.At(m.clock)
}

// Visible returns the part of the current view that finished by the clock.
// An interval in progress is cut at the clock.
func (m Model) Visible() scheduler.Trace {
	view := m.trace
	if m.merge {
		view = m.merged
	}
	var out scheduler.Trace
	for _, iv := range view {
		if iv.Start >= m.clock {
			break
		}
		if iv.End > m.clock {
			iv.End = m.clock
		}
		out = append(out, iv)
	}
	return out
}

// Executed returns how many time units id has run by the clock.
func (m Model) Executed(id string) int {
	var n int
	for _, iv := range m.trace {
		if iv.ProcessID != id || iv.Start >= m.clock {
			continue
		}
		n += min(iv.End, m.clock) - iv.Start
	}
	return n
}

// firstSeen drops repeated ids, keeping first-appearance order.
func firstSeen(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// SendQuit sends a quit message to the TUI.
func SendQuit(p *tea.Program) {
	if p != nil {
		p.Send(QuitMsg{})
	}
}
