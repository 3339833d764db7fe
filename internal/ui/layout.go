package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the badge and trend panels horizontally, with
// the menu bar on top and the status bar on the bottom.
func ComposeLayout(menuBar, badgePanel, trendPanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, badgePanel, trendPanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
