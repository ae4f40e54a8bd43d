// Package components renders small reusable report fragments.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/talentprep/scorekit/internal/ui/theme"
)

// Bar is a horizontal percentage bar with a fixed-width label column.
type Bar struct {
	Label      string
	LabelWidth int
	Pct        int
	Width      int
	Suffix     string
}

// NewBar creates a bar of width cells.
func NewBar(label string, pct, width int) Bar {
	return Bar{Label: label, Pct: pct, Width: width}
}

// View renders the bar.
func (b Bar) View() string {
	var result string

	if b.Label != "" {
		label := b.Label
		if b.LabelWidth > 0 {
			label = fmt.Sprintf("%-*s", b.LabelWidth, truncate(label, b.LabelWidth))
		}
		result += theme.Body.Render(label) + "  "
	}

	width := b.Width
	if width < 4 {
		width = 4
	}
	pct := min(max(b.Pct, 0), 100)
	filled := width * pct / 100
	empty := width - filled

	result += theme.BarFilled.Render(strings.Repeat("█", filled))
	result += theme.BarEmpty.Render(strings.Repeat("░", empty))
	result += theme.Band(pct).Render(fmt.Sprintf(" %3d%%", b.Pct))

	if b.Suffix != "" {
		result += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(b.Suffix)
	}
	return result
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
