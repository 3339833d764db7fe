package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorGreen     = lipgloss.Color("#00CC33")
	ColorMidGreen  = lipgloss.Color("#008F11")
	ColorDimGreen  = lipgloss.Color("#004A0A")
	ColorAmber     = lipgloss.Color("#FFAA00")
	ColorRed       = lipgloss.Color("#FF3300")
	ColorBorder    = lipgloss.Color("#00AA22")
	ColorBarBg     = lipgloss.Color("#002200")
	ColorLabel     = lipgloss.Color("#AAFFAA")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBarBg).
			Foreground(ColorGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBarBg).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStateConnected = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	StyleStateTrouble = lipgloss.NewStyle().
				Foreground(ColorAmber).
				Bold(true)

	StyleStateFailed = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true).
			Padding(0, 1)

	StyleDisconnected = lipgloss.NewStyle().
				Foreground(ColorAmber).
				Bold(true)

	StyleAlertBanner = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(ColorRed).
				Bold(true).
				Padding(0, 1)

	StyleSparkline = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleStatValue = lipgloss.NewStyle().
			Foreground(ColorLabel)

	StyleStatLabel = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleErrLine = lipgloss.NewStyle().
			Foreground(ColorRed)
)
