package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abhisek/homeroom/internal/mastery"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

// numbers formats counts with grouping separators.
var numbers = message.NewPrinter(language.English)

// newTable returns a table styled with the theme.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.TableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeader
			}
			return theme.TableCell
		})
}

// printLine writes styled output, downsampling colors for w.
func printLine(w io.Writer, v ...any) {
	lipgloss.Fprintln(w, v...)
}

func heading(w io.Writer, title string) {
	printLine(w, theme.Title.Render(title))
	printLine(w, theme.Subtitle.Render(strings.Repeat("─", 60)))
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func stateLabel(s mastery.State) string {
	switch s {
	case mastery.StateMastered:
		return theme.Mastered.Render(s.Label())
	case mastery.StateProceduralOnly:
		return theme.Procedural.Render(s.Label())
	default:
		return theme.Learning.Render(s.Label())
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
