// Package ui holds terminal rendering helpers shared by the dashboard and
// the plain CLI output paths.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication, using ANSI codes for broad
// terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// ColorEnabled reports whether the terminal supports color output at all.
// Plain-table commands skip styling entirely when it does not. The check
// goes through lipgloss so SetColorProfile overrides apply.
func ColorEnabled() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}
