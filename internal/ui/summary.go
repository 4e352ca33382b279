package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HostSummary holds the per-host counters displayed in the end-of-run summary.
type HostSummary struct {
	Host    string
	ASN     string // "AS<number>" when resolved, empty otherwise
	Success int
	Slow    int
	Fail    int
	Total   int
}

// Replies returns the number of attempts that got any reply (slow counts).
func (s HostSummary) Replies() int {
	return s.Success + s.Slow
}

// Percentage returns the reply rate as a percentage of total attempts.
func (s HostSummary) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Replies()) / float64(s.Total) * 100
}

// RenderSummaryTo prints a formatted end-of-run summary to the writer.
// Hosts are printed in the order given (the order they were supplied).
func RenderSummaryTo(w io.Writer, summaries []HostSummary, elapsed time.Duration) {
	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)

	divider := mutedStyle.Render(strings.Repeat("─", 60))

	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Summary"))
	fmt.Fprintln(w)

	labelWidth := 0
	for _, s := range summaries {
		if len(s.Host) > labelWidth {
			labelWidth = len(s.Host)
		}
	}

	var reached, unreached int
	for _, s := range summaries {
		symbol := successStyle.Render(SymbolPass)
		status := successStyle.Render("[OK]")
		if s.Replies() == 0 {
			symbol = errorStyle.Render(SymbolFailMark)
			status = errorStyle.Render("[FAILED]")
			unreached++
		} else {
			reached++
		}

		label := fmt.Sprintf("%-*s", labelWidth, s.Host)
		line := fmt.Sprintf("  %s %s  %d/%d replies (%.1f%%) %s",
			symbol, label, s.Replies(), s.Total, s.Percentage(), status)
		if s.Slow > 0 {
			line += " " + warnStyle.Render(fmt.Sprintf("%d slow", s.Slow))
		}
		if s.ASN != "" {
			line += " " + mutedStyle.Render(s.ASN)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %d reachable  %s %d unreachable  %s\n",
		successStyle.Render(SymbolPass), reached,
		errorStyle.Render(SymbolFailMark), unreached,
		mutedStyle.Render(fmt.Sprintf("(%s)", formatDuration(elapsed))),
	)
	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
}

// formatDuration renders a duration with sensible precision for display.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		m := int(d.Minutes())
		s := int(d.Seconds()) - m*60
		return fmt.Sprintf("%dm%ds", m, s)
	}
}
