package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/acuity/internal/router"
	"github.com/abhisek/acuity/internal/screens/history"
	sessionscreen "github.com/abhisek/acuity/internal/screens/session"
	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/store"
)

type mockResultRepo struct {
	results []store.ResultRecord
}

func (m *mockResultRepo) AppendResult(_ context.Context, _ store.ResultData) error {
	return nil
}

func (m *mockResultRepo) QueryResults(_ context.Context, opts store.QueryOpts) ([]store.ResultRecord, error) {
	if opts.Limit > 0 && len(m.results) > opts.Limit {
		return m.results[:opts.Limit], nil
	}
	return m.results, nil
}

func (m *mockResultRepo) LatestResult(_ context.Context, _ string) (*store.ResultRecord, error) {
	return nil, nil
}

func testDeps(repo store.ResultRepo) Deps {
	return Deps{
		Session: sessionscreen.Deps{Config: staircase.DefaultConfig()},
		Results: repo,
	}
}

func press(h *HomeScreen, code rune) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestHomeScreen_StartPushesSession(t *testing.T) {
	h := New(testDeps(&mockResultRepo{}))
	cmd := press(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*sessionscreen.SessionScreen); !ok {
		t.Errorf("expected session screen, got %T", push.Screen)
	}
}

func TestHomeScreen_HistoryPushesHistory(t *testing.T) {
	h := New(testDeps(&mockResultRepo{}))
	press(h, tea.KeyDown)
	cmd := press(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("expected history screen, got %T", push.Screen)
	}
}

func TestHomeScreen_HistoryDisabledWithoutRepo(t *testing.T) {
	h := New(testDeps(nil))
	press(h, tea.KeyDown)
	if h.menu.Selected != 2 {
		t.Errorf("selected = %d, want EXIT (2) with history disabled", h.menu.Selected)
	}
}

func TestHomeScreen_ShowsLastResult(t *testing.T) {
	repo := &mockResultRepo{results: []store.ResultRecord{
		{ResultData: store.ResultData{Participant: "Ana", FinalLabel: "0.8"}},
		{ResultData: store.ResultData{Participant: "Bo", FinalLabel: "0.2"}},
	}}
	view := New(testDeps(repo)).View(100, 40)
	if !strings.Contains(view, "Ana") || !strings.Contains(view, "0.8") {
		t.Error("expected newest result in view")
	}
	if strings.Contains(view, "Bo") {
		t.Error("only the newest result should be shown")
	}
}

func TestHomeScreen_EmptyHistoryNote(t *testing.T) {
	view := New(testDeps(&mockResultRepo{})).View(100, 40)
	if !strings.Contains(view, "No tests taken yet") {
		t.Error("expected empty-history note")
	}
	if !strings.Contains(view, "directions") {
		t.Error("expected the answer space in the info card")
	}
}

func TestHomeScreen_UpdateNote(t *testing.T) {
	deps := testDeps(nil)
	deps.LatestVersion = "v1.4.0"
	if !strings.Contains(New(deps).View(100, 40), "New version v1.4.0 available") {
		t.Error("expected update note")
	}
}

func TestHomeScreen_CompactTitle(t *testing.T) {
	h := New(testDeps(nil))
	if !strings.Contains(h.View(60, 15), titleCompact) {
		t.Error("expected compact title on small terminals")
	}
	if strings.Contains(h.View(100, 40), titleCompact) {
		t.Error("expected full title on large terminals")
	}
}
