package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBadgePanel wraps the rendered badge surface in a bordered
// panel with a status label underneath. The surface comes from the
// icon manager; this panel only frames it.
func RenderBadgePanel(width, height int, surface, statusLabel string, alert bool) string {
	title := StylePanelTitle.Render("HEART RATE")

	var label string
	switch {
	case alert:
		label = StyleAlertBanner.Render(" ALERT ")
	case statusLabel != "":
		label = StyleDisconnected.Render(statusLabel)
	}

	innerW := width - 2
	if innerW < 8 {
		innerW = 8
	}

	center := lipgloss.NewStyle().Width(innerW).Align(lipgloss.Center)
	parts := []string{title, "", center.Render(surface)}
	if label != "" {
		parts = append(parts, "", center.Render(label))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return StylePanelBorder.Width(innerW).Height(height - 2).Render(content)
}

// sparkline block ramp, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws values as a one-line block sparkline scaled to
// the observed range. Missing leading samples are padded with spaces.
func RenderSparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	for i := 0; i < width-len(values); i++ {
		b.WriteByte(' ')
	}
	span := hi - lo
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}

	return StyleSparkline.Render(b.String())
}

// RenderTrendPanel renders the BPM history sparkline with range tags.
func RenderTrendPanel(width, height int, values []float64) string {
	title := StylePanelTitle.Render("TREND")

	innerW := width - 2
	if innerW < 10 {
		innerW = 10
	}

	var body string
	if len(values) == 0 {
		body = StyleStatLabel.Render("waiting for readings...")
	} else {
		lo, hi := values[0], values[0]
		for _, v := range values {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		spark := RenderSparkline(values, innerW-2)
		tags := StyleStatLabel.Render("lo ") + StyleStatValue.Render(formatBPM(lo)) +
			StyleStatLabel.Render("  hi ") + StyleStatValue.Render(formatBPM(hi))
		body = lipgloss.JoinVertical(lipgloss.Left, spark, tags)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body)
	return StylePanelBorder.Width(innerW).Height(height - 2).Render(content)
}
