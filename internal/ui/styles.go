package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the hearth-ctl UI
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#E25822") // Flame orange - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - burning, on states
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, pending
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 48 // Minimum supported terminal width
	MaxContentWidth  = 80 // Maximum content width before capping
)

// Shared styles for hearth-ctl output
var (
	// TitleStyle is for the watch view banner
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// LabelStyle is for field labels (e.g., "Flame:")
	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(10).
			PaddingLeft(1)

	// ValueStyle is for field values
	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// OnStyle is for active states (power on, burner lit)
	OnStyle = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true)

	// OffStyle is for inactive states
	OffStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	// ErrorStyle is for error lines
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// HintStyle is for key hints at the bottom of the watch view
	HintStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// StaleStyle marks status that has not refreshed recently
	StaleStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Italic(true)
)

// State markers
const (
	OnMarker  = "●"
	OffMarker = "○"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// BoxStyle returns the bordered box used around the watch view
func BoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2) // Account for border characters
}

// FlameBar renders a proportional bar for a 0-100 flame level
func FlameBar(level, width int) string {
	if width < 4 {
		width = 4
	}
	filled := level * width / 100
	if filled > width {
		filled = width
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	if level >= 66 {
		return ErrorStyle.Render(bar)
	}
	if level >= 33 {
		return lipgloss.NewStyle().Foreground(WarningColor).Render(bar)
	}
	return lipgloss.NewStyle().Foreground(PrimaryColor).Render(bar)
}
