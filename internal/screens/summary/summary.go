package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acuity/internal/router"
	"github.com/abhisek/acuity/internal/screen"
	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/ui/layout"
	"github.com/abhisek/acuity/internal/ui/theme"
)

// SummaryScreen displays the result of a finished test.
type SummaryScreen struct {
	result    *staircase.ResultRecord
	recordErr error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. recordErr, when set, is shown as a
// warning that the result was not saved.
func New(result *staircase.ResultRecord, recordErr error) *SummaryScreen {
	return &SummaryScreen{result: result, recordErr: recordErr}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Result"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	if res == nil {
		return ""
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Test complete, " + res.Participant)))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.ChartYellow).
		Bold(true).
		Render("Achieved level  " + res.Final.Label)))
	b.WriteString("\n")
	b.WriteString(center(theme.Hint.Render(BasisText(res.Basis))))
	b.WriteString("\n\n")

	dur := res.EndedAt.Sub(res.StartedAt)
	stats := fmt.Sprintf("Trials: %d        Correct: %d        Ended: %s        Time: %d:%02d",
		len(res.History), res.Correct(), ReasonText(res),
		int(dur.Minutes()), int(dur.Seconds())%60)
	b.WriteString(center(theme.Body.Render(stats)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(center(theme.Hint.Render("Cleared levels")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")
	b.WriteString(center(theme.Body.Render(ClearedText(res.Cleared))))
	b.WriteString("\n\n")

	b.WriteString(center(theme.Hint.Render("Trials")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")
	b.WriteString(center(TrialStrip(res.History, width-8)))
	b.WriteString("\n")

	if s.recordErr != nil {
		b.WriteString("\n")
		b.WriteString(center(theme.Warning.Render("Result not saved: " + s.recordErr.Error())))
		b.WriteString("\n")
	}

	return b.String()
}

// BasisText explains how the final level was derived.
func BasisText(b staircase.Basis) string {
	switch b {
	case staircase.BasisCleared:
		return "highest level cleared"
	case staircase.BasisReached:
		return "no level cleared; highest level answered correctly"
	}
	return "no correct answers; below the chart"
}

// ReasonText describes why the session ended.
func ReasonText(r *staircase.ResultRecord) string {
	if r.EndedByFailure {
		return "mistake limit"
	}
	return "stopped"
}

// ClearedText lists cleared level labels in rank order.
func ClearedText(levels []staircase.Level) string {
	if len(levels) == 0 {
		return "none"
	}
	labels := make([]string, len(levels))
	for i, l := range levels {
		labels[i] = l.Label
	}
	return strings.Join(labels, "  ")
}

// TrialStrip renders one ✓ or ✗ per trial, wrapped to width.
func TrialStrip(history []staircase.Trial, width int) string {
	if len(history) == 0 {
		return theme.Hint.Render("no trials")
	}
	perLine := max(width/2, 1)

	var b strings.Builder
	for i, t := range history {
		if i > 0 && i%perLine == 0 {
			b.WriteString("\n")
		}
		if t.Correct {
			b.WriteString(theme.Correct.Render("✓"))
		} else {
			b.WriteString(theme.Incorrect.Render("✗"))
		}
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " ")
}
