package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acuity/internal/router"
	"github.com/abhisek/acuity/internal/screen"
	"github.com/abhisek/acuity/internal/screens/history"
	sessionscreen "github.com/abhisek/acuity/internal/screens/session"
	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/store"
	"github.com/abhisek/acuity/internal/ui/components"
	"github.com/abhisek/acuity/internal/ui/layout"
	"github.com/abhisek/acuity/internal/ui/theme"
)

const (
	titleFull = ` █████╗  ██████╗██╗   ██╗██╗████████╗██╗   ██╗
██╔══██╗██╔════╝██║   ██║██║╚══██╔══╝╚██╗ ██╔╝
███████║██║     ██║   ██║██║   ██║    ╚████╔╝
██╔══██║██║     ██║   ██║██║   ██║     ╚██╔╝
██║  ██║╚██████╗╚██████╔╝██║   ██║      ██║
╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚═╝   ╚═╝      ╚═╝`

	titleCompact = "A · C · U · I · T · Y"
)

// Deps wires the home menu to the rest of the app.
type Deps struct {
	Session sessionscreen.Deps

	// Results backs the history entry and the last-result line. Nil
	// disables both.
	Results store.ResultRepo

	// LatestVersion, when set, is shown as an update note.
	LatestVersion string
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	last   *store.ResultRecord
	config staircase.Config
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps, config: deps.Session.Config}

	if deps.Results != nil {
		recs, err := deps.Results.QueryResults(context.Background(), store.QueryOpts{Limit: 1})
		if err == nil && len(recs) > 0 {
			h.last = &recs[0]
		}
	}

	items := []components.MenuItem{
		{Label: "START TEST", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: sessionscreen.New(deps.Session)}
			}
		}},
		{Label: "HISTORY", Disabled: deps.Results == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps.Results)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer to estimate
	// the terminal height.
	compact := layout.IsCompactHeight(height+8) || width < 70
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	sections = append(sections, components.Card(h.infoText(), cw))
	if h.deps.LatestVersion != "" {
		sections = append(sections, theme.Hint.Width(cw).Align(lipgloss.Center).
			Render(fmt.Sprintf("New version %s available", h.deps.LatestVersion)))
	}
	sections = append(sections, h.menu.View(cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// infoText summarizes the active test setup and the most recent result.
func (h *HomeScreen) infoText() string {
	cfg := h.config
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.ChartCyan).Bold(true)

	var lines []string
	if cfg.Ladder != nil && cfg.Answers.Len() > 0 {
		start, _ := cfg.Ladder.Level(cfg.StartRank)
		lines = append(lines, fmt.Sprintf("%s %s   %s %s   %s %d/%d",
			label.Render("Answers"), value.Render(cfg.Answers.Name()),
			label.Render("Start"), value.Render(start.Label),
			label.Render("Pass/Fail"), cfg.PassThreshold, cfg.FailThreshold))
	}

	if h.last != nil {
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			label.Render("Last test:"),
			h.last.Participant,
			label.Render("reached"),
			lipgloss.NewStyle().Foreground(theme.ChartYellow).Bold(true).Render(h.last.FinalLabel)))
	} else if h.deps.Results != nil {
		lines = append(lines, label.Render("No tests taken yet"))
	}
	return strings.Join(lines, "\n")
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ChartYellow).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}
