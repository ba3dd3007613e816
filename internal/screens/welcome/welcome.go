package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/acuity/internal/router"
	"github.com/abhisek/acuity/internal/screen"
	"github.com/abhisek/acuity/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	rowInterval  = 300 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

// chartRows shrink as they go down, like a wall chart.
var chartRows = []string{
	"E",
	"F  P",
	"T O Z",
	"L P E D",
	"P E C F D",
}

const tagline = "Cover one eye. Read what you can."

type tickMsg time.Time

// WelcomeScreen reveals a small eye chart line by line, then hands over to
// the home screen on the first key press.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// visibleRows returns how many chart rows have been revealed.
func (w *WelcomeScreen) visibleRows() int {
	n := int(w.elapsed/rowInterval) + 1
	return min(n, len(chartRows))
}

func (w *WelcomeScreen) View(width, height int) string {
	chartStyle := lipgloss.NewStyle().Foreground(theme.Ink).Bold(true)

	var rows []string
	for _, r := range chartRows[:w.visibleRows()] {
		rows = append(rows, chartStyle.Render(r))
	}
	sections := []string{lipgloss.JoinVertical(lipgloss.Center, rows...)}

	if w.elapsed >= totalDur {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tagline),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
