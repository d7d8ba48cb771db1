package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeroom/internal/ui/theme"
)

// CreditBar renders earned credits against a requirement as a horizontal
// bar followed by "current/required".
type CreditBar struct {
	Label    string
	Current  float64
	Required float64
	Width    int
}

// NewCreditBar creates a credit bar.
func NewCreditBar(label string, current, required float64, width int) CreditBar {
	return CreditBar{
		Label:    label,
		Current:  current,
		Required: required,
		Width:    width,
	}
}

// Percent is the completed fraction, capped to [0, 1].
func (b CreditBar) Percent() float64 {
	if !(b.Required > 0) {
		return 1
	}
	p := b.Current / b.Required
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// View renders the bar.
func (b CreditBar) View() string {
	var result string

	if b.Label != "" {
		result += theme.Body.Render(b.Label) + "  "
	}

	counts := fmt.Sprintf("  %s/%s", formatCredits(b.Current), formatCredits(b.Required))

	barWidth := b.Width - lipgloss.Width(result) - lipgloss.Width(counts)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * b.Percent())
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat("█", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat("░", empty))
	result += theme.Subtitle.Render(counts)

	return result
}

func formatCredits(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
