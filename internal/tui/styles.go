package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	primaryColor = lipgloss.Color("#43BF6D") // Green
	warnColor    = lipgloss.Color("#FFA500") // Orange
	errorColor   = lipgloss.Color("#FF5555") // Red
	subtleColor  = lipgloss.Color("#626262") // Gray
	accentColor  = lipgloss.Color("#7D56F4") // Purple
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	deviceIDStyle = lipgloss.NewStyle().
			Bold(true)

	addrStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	okStyle = lipgloss.NewStyle().
		Foreground(primaryColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)
