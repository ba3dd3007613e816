package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acuity/internal/ui/theme"
)

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// Button is a labelled choice in a dialog.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ButtonRow renders buttons side by side with the selected one active.
func ButtonRow(labels []string, selected int) string {
	views := make([]string, len(labels))
	for i, l := range labels {
		views[i] = Button{Label: l, Active: i == selected}.View()
		if i < len(labels)-1 {
			views[i] += "  "
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}

// MenuButton renders one fixed-width menu entry.
func MenuButton(label string, selected, disabled bool) string {
	style := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch {
	case disabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ChartYellow).
			BorderForeground(theme.ChartYellow).
			Render("▸ " + label)
	}
	return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
}
