package render

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/icecake0141/paraping/internal/probe"
	"github.com/icecake0141/paraping/internal/ui"
)

// HeaderLines is the fixed number of header lines above the host rows.
const HeaderLines = 2

// hostRow holds the render history for one host entry: a ring of outcome
// symbols plus one ring of sequence numbers per status category. All four
// rings always share the same capacity.
type hostRow struct {
	host    string
	symbols *Ring[probe.Status]
	bySeq   [3]*Ring[int] // indexed by probe.Status
}

func newHostRow(host string, capacity int) *hostRow {
	row := &hostRow{
		host:    host,
		symbols: NewRing[probe.Status](capacity),
	}
	for i := range row.bySeq {
		row.bySeq[i] = NewRing[int](capacity)
	}
	return row
}

// State owns the per-host render buffers and redraws the dashboard. It is
// single-owner: only the main loop mutates it, so no locking is needed.
type State struct {
	rows   []*hostRow
	header [HeaderLines]string
	offset int // first visible row, moved by arrow-key scrolling
}

// NewState creates render state for the given host list (duplicates get their
// own rows) with the given two header lines. Rings start at capacity 1 and
// take their real size from the first ResizeBuffers call.
func NewState(hosts []string, header [HeaderLines]string) *State {
	rows := make([]*hostRow, len(hosts))
	for i, h := range hosts {
		rows[i] = newHostRow(h, 1)
	}
	return &State{
		rows:   rows,
		header: header,
	}
}

// Apply records one observation in the host's rings. Completion markers carry
// no render state and are ignored.
func (s *State) Apply(ev probe.Event) {
	if ev.Done || ev.Index < 0 || ev.Index >= len(s.rows) {
		return
	}
	row := s.rows[ev.Index]
	row.symbols.Add(ev.Status)
	row.bySeq[ev.Status].Add(ev.Seq)
}

// ResizeBuffers brings every host's rings to the given capacity, preserving
// the most recent contents. Must be called before every render so ring
// capacity always equals the current timeline width.
func (s *State) ResizeBuffers(timelineWidth int) {
	for _, row := range s.rows {
		row.symbols.Resize(timelineWidth)
		for _, ring := range row.bySeq {
			ring.Resize(timelineWidth)
		}
	}
}

// Scroll moves the visible window by delta rows, clamped so the window always
// covers valid rows.
func (s *State) Scroll(delta, visibleHosts int) {
	s.offset += delta
	max := len(s.rows) - visibleHosts
	if max < 0 {
		max = 0
	}
	if s.offset > max {
		s.offset = max
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// Hosts returns the host labels in row order.
func (s *State) Hosts() []string {
	hosts := make([]string, len(s.rows))
	for i, row := range s.rows {
		hosts[i] = row.host
	}
	return hosts
}

// Render clears the screen and redraws the dashboard for the given terminal
// size. The only escape sequence emitted is the clear-and-home preceding the
// redraw.
func (s *State) Render(w io.Writer, width, height int) {
	layout := ComputeLayout(s.Hosts(), width, height, HeaderLines)
	s.ResizeBuffers(layout.TimelineWidth)
	s.Scroll(0, layout.VisibleHosts) // re-clamp after any resize

	termenv.NewOutput(w).ClearScreen()

	// Lines end \r\n: the terminal is in raw mode while the dashboard is
	// live, so LF alone does not return the carriage.
	for _, line := range s.header {
		fmt.Fprintf(w, "%s\r\n", line)
	}

	end := s.offset + layout.VisibleHosts
	if end > len(s.rows) {
		end = len(s.rows)
	}
	for _, row := range s.rows[s.offset:end] {
		label := row.host
		if len(label) > layout.LabelWidth {
			label = label[:layout.LabelWidth]
		}
		fmt.Fprintf(w, "%*s | %*s\r\n",
			layout.LabelWidth, label,
			layout.TimelineWidth, timeline(row.symbols.All()))
	}

	if hidden := len(s.rows) - end; hidden > 0 {
		fmt.Fprintf(w, "(%d more not shown)\r\n", hidden)
	}
}

// timeline concatenates a symbol run into the displayed string.
func timeline(statuses []probe.Status) string {
	buf := make([]byte, 0, len(statuses))
	for _, st := range statuses {
		switch st {
		case probe.StatusSuccess:
			buf = append(buf, ui.SymbolSuccess...)
		case probe.StatusSlow:
			buf = append(buf, ui.SymbolSlow...)
		default:
			buf = append(buf, ui.SymbolFail...)
		}
	}
	return string(buf)
}
