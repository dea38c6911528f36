package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/netdash/netdash/internal/ui"
)

// Base styles for the dashboard.
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Padding(0, 1)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(ui.ColorInfo).
				Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorMuted).
			Padding(0, 1).
			MarginRight(1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorInfo).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	valueStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary)

	errorStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError)

	successStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSuccess)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(ui.ColorPrimary).
				Bold(true)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(ui.ColorInfo).
			Bold(true).
			Underline(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(ui.ColorMuted)

	trendUpStyle   = errorStyle   // rising usage reads as bad
	trendDownStyle = successStyle // falling usage reads as good
)

// spinnerFrames animate in-flight requests.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
