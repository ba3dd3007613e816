package components

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/acuity/internal/ui/theme"
)

// Tally shows the attempt window of the current level as two groups of
// slots: correct answers towards the pass threshold and mistakes towards
// the fail budget.
type Tally struct {
	Correct  int
	Needed   int
	Mistakes int
	Budget   int
}

// NewTally creates a tally. Counts beyond a row's size are clamped.
func NewTally(correct, needed, mistakes, budget int) Tally {
	return Tally{Correct: correct, Needed: needed, Mistakes: mistakes, Budget: budget}
}

// View renders the tally on one line.
func (t Tally) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	return label.Render("Correct ") +
		slots(t.Correct, t.Needed, "●", theme.Success) +
		label.Render("   Mistakes ") +
		slots(t.Mistakes, t.Budget, "✗", theme.Error)
}

// slots renders n filled marks out of total, the rest as hollow dots.
func slots(n, total int, mark string, c color.Color) string {
	n = max(0, min(n, total))
	filled := lipgloss.NewStyle().Foreground(c).Render(strings.Repeat(mark, n))
	empty := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("○", max(total-n, 0)))
	return filled + empty
}
