package tui

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// minChartWidth is the narrowest chart the renderers will draw.
const minChartWidth = 10

// scale maps time units onto chart columns. When the whole span fits, each
// time unit gets the same whole number of columns.
type scale struct {
	span   int
	usable int
}

func newScale(span, width int) scale {
	usable := max(width, minChartWidth) - 1
	if span > 0 && span <= usable {
		usable = (usable / span) * span
	}
	return scale{span: span, usable: usable}
}

func (s scale) col(t int) int {
	if s.span == 0 {
		return 0
	}
	return t * s.usable / s.span
}

// RenderGantt draws trace as one labelled box per interval with the time
// axis beneath, scaled to roughly width columns. Every interval keeps at
// least one column for its label, so traces with many short intervals may
// draw wider than width.
func RenderGantt(trace scheduler.Trace, width int) string {
	return renderGantt(trace, trace.Makespan(), width, newPalette(trace.Order()))
}

// renderGantt draws the intervals of trace against a fixed span, which
// lets the replay view keep its scale while the trace is revealed.
func renderGantt(trace scheduler.Trace, span, width int, pal palette) string {
	if len(trace) == 0 || span == 0 {
		return ""
	}
	sc := newScale(span, width)

	var bar strings.Builder
	bar.WriteString("|")

	// boundary columns, parallel to the labels written on the axis
	type tick struct {
		col  int
		time int
	}
	ticks := []tick{{0, trace[0].Start}}
	cursor := 0
	for _, iv := range trace {
		end := max(sc.col(iv.End), cursor+2)
		cells := end - cursor - 1
		bar.WriteString(pal.render(iv.ProcessID, fit(iv.ProcessID, cells)))
		bar.WriteString("|")
		cursor = end
		ticks = append(ticks, tick{end, iv.End})
	}

	axis := make([]rune, cursor+1+len(strconv.Itoa(span)))
	for i := range axis {
		axis[i] = ' '
	}
	next := 0 // first free column
	for _, tk := range ticks {
		label := strconv.Itoa(tk.time)
		if tk.col < next {
			continue
		}
		copy(axis[tk.col:], []rune(label))
		next = tk.col + len(label) + 1
	}

	return bar.String() + "\n" + strings.TrimRight(string(axis), " ")
}

// fit centers s in n columns, truncating when it does not fit.
func fit(s string, n int) string {
	if n <= 0 {
		return ""
	}
	l := utf8.RuneCountInString(s)
	if l >= n {
		return string([]rune(s)[:n])
	}
	left := (n - l) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", n-l-left)
}
