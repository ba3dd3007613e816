package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/acuity/internal/optotype"
	"github.com/abhisek/acuity/internal/router"
	"github.com/abhisek/acuity/internal/screen"
	"github.com/abhisek/acuity/internal/screens/summary"
	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/ui/components"
	"github.com/abhisek/acuity/internal/ui/layout"
)

const nameMaxLen = 40

type phase int

const (
	phaseName phase = iota
	phaseTrial
	phaseConfirm
)

// Deps are the collaborators a test session is built from.
type Deps struct {
	Config   staircase.Config
	Recorder staircase.Recorder
	Observer staircase.Observer
	Logger   *zap.Logger

	// Rand overrides the answer source; tests pin it for deterministic draws.
	Rand *rand.Rand
}

// SessionScreen runs one acuity test: it asks for the participant's name,
// shows optotypes until the test ends, then hands over to the summary.
type SessionScreen struct {
	deps  Deps
	phase phase

	input   components.TextInput
	nameErr string

	ctrl     *staircase.Controller
	stimulus staircase.Stimulus
	last     *staircase.Outcome
	trialErr string

	confirmSelected int
	finished        bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.BackHandler = (*SessionScreen)(nil)

// New creates a SessionScreen waiting for a participant name.
func New(deps Deps) *SessionScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &SessionScreen{
		deps:  deps,
		input: components.NewTextInput("Your name", nameMaxLen),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SessionScreen) Title() string {
	return "Acuity Test"
}

// HandlesBack keeps Esc inside the screen: it opens the end-test prompt
// during trials.
func (s *SessionScreen) HandlesBack() bool {
	return true
}

func (s *SessionScreen) Status() string {
	if s.ctrl == nil {
		return ""
	}
	return fmt.Sprintf("%s · %s", s.ctrl.Participant(), s.ctrl.Level().Label)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseName:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End test"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "Keys", Description: optotype.KeyHelp(s.deps.Config.Answers)},
		{Key: "Esc", Description: "End"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch s.phase {
		case phaseName:
			return s.handleNameKey(kmsg)
		case phaseTrial:
			return s.handleTrialKey(kmsg)
		case phaseConfirm:
			return s.handleConfirmKey(kmsg)
		}
	}

	if s.phase == phaseName {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleNameKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "enter":
		return s.start()
	}
	s.nameErr = ""
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// start builds a controller for the entered name and shows the first trial.
func (s *SessionScreen) start() (screen.Screen, tea.Cmd) {
	opts := []staircase.Option{staircase.WithLogger(s.deps.Logger)}
	if s.deps.Rand != nil {
		opts = append(opts, staircase.WithRand(s.deps.Rand))
	}
	if s.deps.Recorder != nil {
		opts = append(opts, staircase.WithRecorder(s.deps.Recorder))
	}
	if s.deps.Observer != nil {
		opts = append(opts, staircase.WithObserver(s.deps.Observer))
	}

	ctrl, err := staircase.New(s.deps.Config, opts...)
	if err != nil {
		s.nameErr = err.Error()
		s.input.Submit(false)
		return s, nil
	}
	if err := ctrl.Start(s.input.Value()); err != nil {
		var verr *staircase.ValidationError
		if errors.As(err, &verr) {
			s.nameErr = "Please enter a name."
		} else {
			s.nameErr = err.Error()
		}
		s.input.Submit(false)
		return s, nil
	}

	s.ctrl = ctrl
	s.input.Submit(true)
	s.phase = phaseTrial
	s.refreshStimulus()
	return s, nil
}

func (s *SessionScreen) refreshStimulus() {
	st, err := s.ctrl.NextStimulus()
	if err != nil {
		s.trialErr = err.Error()
		return
	}
	s.stimulus = st
}

func (s *SessionScreen) handleTrialKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		s.phase = phaseConfirm
		s.confirmSelected = 0
		return s, nil
	}

	resp, ok := optotype.ResponseForKey(s.deps.Config.Answers, key)
	if !ok {
		return s, nil
	}

	out, err := s.ctrl.Submit(resp)
	if err != nil {
		s.trialErr = err.Error()
		return s, nil
	}
	s.trialErr = ""
	s.last = out
	if out.Terminal {
		return s, s.finish(staircase.EndMistakeLimit)
	}
	s.refreshStimulus()
	return s, nil
}

func (s *SessionScreen) handleConfirmKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return s, s.finish(staircase.EndUserRequested)
	case "n", "N", "esc":
		s.phase = phaseTrial
		return s, nil
	case "left", "h", "shift+tab":
		s.confirmSelected = 0
	case "right", "l", "tab":
		s.confirmSelected = 1
	case "enter":
		if s.confirmSelected == 0 {
			return s, s.finish(staircase.EndUserRequested)
		}
		s.phase = phaseTrial
	}
	return s, nil
}

// finish ends the session once and replaces this screen with its summary.
// A recording failure still shows the result, with a warning.
func (s *SessionScreen) finish(reason staircase.EndReason) tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true

	res, err := s.ctrl.End(context.Background(), reason)
	if res == nil {
		s.trialErr = err.Error()
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := summary.New(res, err)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}
