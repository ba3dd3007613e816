package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/acuity/internal/optotype"
	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/ui/components"
	"github.com/abhisek/acuity/internal/ui/theme"
)

// chromeRows is the space kept free around the optotype for the info line,
// feedback and progress bar.
const chromeRows = 8

func (s *SessionScreen) View(width, height int) string {
	switch s.phase {
	case phaseName:
		return s.renderName(width, height)
	case phaseConfirm:
		return s.renderConfirm(width, height)
	}
	return s.renderTrial(width, height)
}

func (s *SessionScreen) renderName(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Who is taking the test?"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	if s.nameErr != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.nameErr))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Sit at your usual distance and cover one eye."))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(b.String(), cw))
}

func (s *SessionScreen) renderConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("End the test now?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Your result so far will be saved."))
	b.WriteString("\n\n")
	b.WriteString(components.ButtonRow([]string{"End test", "Keep going"}, s.confirmSelected))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(b.String(), components.ContentWidth(width)))
}

func (s *SessionScreen) renderTrial(width, height int) string {
	if s.ctrl == nil {
		return ""
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Level %s", s.stimulus.Level.Label))
	infoRight := theme.Hint.Render(fmt.Sprintf("Trial %d", s.stimulus.Number))
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	glyphH := max(height-chromeRows, optotype.Size)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderOptotype(width-4, glyphH)))
	b.WriteString("\n\n")

	if line := s.feedbackLine(); line != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	trials, correct := s.ctrl.Counters()
	cfg := s.ctrl.Config()
	tally := components.NewTally(correct, cfg.PassThreshold, trials-correct, cfg.MistakeBudget())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, tally.View()))

	return b.String()
}

func (s *SessionScreen) renderOptotype(maxW, maxH int) string {
	glyph, ok := optotype.GlyphFor(s.stimulus.Answer)
	if !ok {
		return theme.Warning.Render("?")
	}
	frame := optotype.Render(glyph, s.stimulus.Magnitude, maxW, maxH)
	return theme.Optotype.Render(frame.String())
}

// feedbackLine describes the previous response.
func (s *SessionScreen) feedbackLine() string {
	if s.trialErr != "" {
		return theme.Incorrect.Render(s.trialErr)
	}
	if s.last == nil {
		return ""
	}

	mark := theme.Correct.Render("✓")
	if !s.last.Trial.Correct {
		mark = theme.Incorrect.Render("✗")
	}

	var note string
	switch s.last.Transition {
	case staircase.TransitionCleared:
		if s.last.To.Rank == s.last.From.Rank {
			note = fmt.Sprintf("Cleared %s, top of the chart", s.last.From.Label)
		} else {
			note = fmt.Sprintf("Cleared %s, now %s", s.last.From.Label, s.last.To.Label)
		}
	case staircase.TransitionDemoted:
		note = fmt.Sprintf("Back to %s", s.last.To.Label)
	}
	if note == "" {
		return mark
	}
	return mark + "  " + theme.Warning.Render(note)
}
