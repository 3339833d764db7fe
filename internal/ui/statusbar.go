package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: session stats plus
// the recording indicator.
func RenderStatusBar(width int, uptime, lastAge time.Duration, min, avg, peak float64, recording bool) string {
	stats := StyleStatLabel.Render(" up ") + StyleStatValue.Render(fmtDuration(uptime))
	if lastAge >= 0 {
		stats += StyleStatLabel.Render("  last ") + StyleStatValue.Render(fmtDuration(lastAge))
	}
	if peak > 0 {
		stats += StyleStatLabel.Render("  min ") + StyleStatValue.Render(formatBPM(min)) +
			StyleStatLabel.Render("  avg ") + StyleStatValue.Render(formatBPM(avg)) +
			StyleStatLabel.Render("  peak ") + StyleStatValue.Render(formatBPM(peak))
	}

	rec := ""
	if recording {
		rec = StyleStateFailed.Render("REC") + " "
	}

	gap := width - lipgloss.Width(stats) - lipgloss.Width(rec) - 2
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(stats + strings.Repeat(" ", gap) + rec)
}

func formatBPM(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
