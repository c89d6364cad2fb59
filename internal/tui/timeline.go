package tui

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/randomizedcoder/go-cpusched/internal/scheduler"
)

// RenderTimeline draws a horizontal time axis scaled to width with a tick
// at every interval boundary. The process that ran up to a tick is labelled
// above it and the time is written below it. Labels that would overlap the
// previous one are dropped.
func RenderTimeline(trace scheduler.Trace, width int) string {
	span := trace.Makespan()
	if len(trace) == 0 || span == 0 {
		return ""
	}
	sc := newScale(span, width)
	pal := newPalette(trace.Order())
	last := sc.col(span)

	axis := []rune(strings.Repeat("-", last+1))
	axis[0] = '|'
	axis[last] = '|'

	labels := newRow(last + 1)
	times := newRow(last + 1)
	times.place(0, "0")

	for _, iv := range trace {
		c := sc.col(iv.End)
		if c > 0 && c < last {
			axis[c] = '+'
		}
		labels.placeStyled(c, iv.ProcessID, pal)
		times.place(c, strconv.Itoa(iv.End))
	}

	return strings.Join([]string{labels.String(), string(axis), times.String()}, "\n")
}

// row is one text line of a chart. Text is centered on its anchor column
// and dropped when it would touch the previous text.
type row struct {
	width  int
	cursor int // columns written so far
	b      strings.Builder
}

func newRow(width int) *row {
	return &row{width: width}
}

func (r *row) place(col int, s string) bool {
	return r.placeStyled(col, s, nil)
}

func (r *row) placeStyled(col int, s string, pal palette) bool {
	n := utf8.RuneCountInString(s)
	start := max(col-(n-1)/2, 0)
	if start+n > r.width {
		start = r.width - n
	}
	minStart := r.cursor
	if r.cursor > 0 {
		minStart++ // keep a gap after the previous text
	}
	if start < minStart {
		return false
	}

	r.b.WriteString(strings.Repeat(" ", start-r.cursor))
	if pal != nil {
		s = pal.render(s, s)
	}
	r.b.WriteString(s)
	r.cursor = start + n
	return true
}

func (r *row) String() string {
	return r.b.String()
}
