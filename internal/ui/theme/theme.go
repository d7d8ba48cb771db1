package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Tables
var (
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Padding(0, 1)

	TableBorder = lipgloss.NewStyle().
			Foreground(Border)
)

// Requirement and mastery states
var (
	Met = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Unmet = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Mastered = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Procedural = lipgloss.NewStyle().
			Foreground(Accent)

	Learning = lipgloss.NewStyle().
			Foreground(TextDim)
)

// Progress bars
var (
	ProgressFilled = lipgloss.NewStyle().
			Foreground(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Foreground(Border)
)

// Check renders a met or unmet marker.
func Check(met bool) string {
	if met {
		return Met.Render("✓")
	}
	return Unmet.Render("✗")
}
