package render

// separatorWidth is the space consumed by the " | " glyphs between the host
// label and the timeline.
const separatorWidth = 3

// Layout is the computed geometry of the dashboard for the current terminal.
type Layout struct {
	LabelWidth    int // host label column
	TimelineWidth int // ring-buffer capacity and timeline column
	VisibleHosts  int // rows that fit under the header
}

// ComputeLayout derives the dashboard geometry from the host list and the
// current terminal dimensions. The label column tracks the longest host name
// but never takes more than a third of the terminal (with a 10-column floor);
// the timeline gets whatever is left after the separator.
func ComputeLayout(hosts []string, width, height, headerLines int) Layout {
	longest := 0
	for _, h := range hosts {
		if len(h) > longest {
			longest = len(h)
		}
	}

	maxLabel := width / 3
	if maxLabel < 10 {
		maxLabel = 10
	}
	label := longest
	if label > maxLabel {
		label = maxLabel
	}

	timeline := width - label - separatorWidth
	if timeline < 1 {
		timeline = 1
	}

	visible := height - headerLines
	if visible < 1 {
		visible = 1
	}

	return Layout{
		LabelWidth:    label,
		TimelineWidth: timeline,
		VisibleHosts:  visible,
	}
}
