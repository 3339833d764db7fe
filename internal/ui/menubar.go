package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pulsewatch.dev/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, backend string, state string) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"P", "ause"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	backendInfo := StyleMenuLabel.Render(fmt.Sprintf("Sensor: %s", backend))
	stateInfo := renderState(state)

	left := StyleMenuKey.Render(title) + menu
	right := stateInfo + "  " + backendInfo + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderState(state string) string {
	switch state {
	case "connected":
		return StyleStateConnected.Render("CONNECTED")
	case "failed":
		return StyleStateFailed.Render("FAILED")
	default:
		return StyleStateTrouble.Render(strings.ToUpper(state))
	}
}
