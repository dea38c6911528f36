package dashboard

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/netdash/netdash/internal/ui"
)

// StatusKind is a host's health state as reported by the backend.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusUp
	StatusDown
	StatusWarning
)

// ParseStatus maps a backend status string to a StatusKind. Anything
// unrecognized is StatusUnknown.
func ParseStatus(s string) StatusKind {
	switch s {
	case "up":
		return StatusUp
	case "down":
		return StatusDown
	case "warning":
		return StatusWarning
	default:
		return StatusUnknown
	}
}

// String returns the backend wire form of the status.
func (s StatusKind) String() string {
	switch s {
	case StatusUp:
		return "up"
	case StatusDown:
		return "down"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Symbol returns the status indicator glyph for the host table.
func (s StatusKind) Symbol() string {
	switch s {
	case StatusUp:
		return "◉"
	case StatusDown:
		return "◌"
	case StatusWarning:
		return "◔"
	default:
		return "◐"
	}
}

// Color returns the semantic color for the status.
func (s StatusKind) Color() lipgloss.Color {
	switch s {
	case StatusUp:
		return ui.ColorSuccess
	case StatusDown:
		return ui.ColorError
	case StatusWarning:
		return ui.ColorWarning
	default:
		return ui.ColorMuted
	}
}

// Severity is an alert severity level 0-5. The mapping to labels and colors
// is total: levels outside the range render as "Unknown" rather than
// producing undefined output.
type Severity int

const (
	SeverityNotClassified Severity = 0
	SeverityInformation   Severity = 1
	SeverityWarning       Severity = 2
	SeverityAverage       Severity = 3
	SeverityHigh          Severity = 4
	SeverityDisaster      Severity = 5
)

// Label returns the human-readable severity name.
func (s Severity) Label() string {
	switch s {
	case SeverityNotClassified:
		return "Not classified"
	case SeverityInformation:
		return "Information"
	case SeverityWarning:
		return "Warning"
	case SeverityAverage:
		return "Average"
	case SeverityHigh:
		return "High"
	case SeverityDisaster:
		return "Disaster"
	default:
		return "Unknown"
	}
}

// Color returns the chip color for the severity.
func (s Severity) Color() lipgloss.Color {
	switch s {
	case SeverityInformation:
		return ui.ColorInfo
	case SeverityWarning:
		return ui.ColorWarning
	case SeverityAverage:
		return ui.ColorWarning
	case SeverityHigh, SeverityDisaster:
		return ui.ColorError
	default:
		return ui.ColorMuted
	}
}

// Valid reports whether the severity is within the closed 0-5 range.
func (s Severity) Valid() bool {
	return s >= SeverityNotClassified && s <= SeverityDisaster
}

// TimeRange is a selectable metrics window. It controls both the fetch
// window and the granularity of the time labels.
type TimeRange int

const (
	Range24h TimeRange = iota
	Range7d
	Range30d
)

// Hours returns the trailing window size passed to the backend.
func (r TimeRange) Hours() int {
	switch r {
	case Range7d:
		return 7 * 24
	case Range30d:
		return 30 * 24
	default:
		return 24
	}
}

// String returns the tab label for the range.
func (r TimeRange) String() string {
	switch r {
	case Range7d:
		return "7d"
	case Range30d:
		return "30d"
	default:
		return "24h"
	}
}

// Next cycles to the next range.
func (r TimeRange) Next() TimeRange {
	return TimeRange((int(r) + 1) % 3)
}

// FormatLabel renders a sample timestamp at the range's granularity: HH:MM
// for sub-day windows, month+day otherwise. Samples spanning midnight in the
// 24h view share labels with their daytime twins; the chart is read
// left-to-right so this stays unambiguous enough in practice.
func (r TimeRange) FormatLabel(t time.Time) string {
	if r == Range24h {
		return t.Format("15:04")
	}
	return t.Format("Jan 2")
}

// ChartTab selects which metric the chart area displays.
type ChartTab int

const (
	TabCPU ChartTab = iota
	TabMemory
	TabNetwork
)

// String returns the tab label.
func (t ChartTab) String() string {
	switch t {
	case TabMemory:
		return "Memory"
	case TabNetwork:
		return "Network"
	default:
		return "CPU"
	}
}

// Next cycles to the next chart tab.
func (t ChartTab) Next() ChartTab {
	return ChartTab((int(t) + 1) % 3)
}
