package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/acuity/internal/router"
	"github.com/abhisek/acuity/internal/store"
)

// mockResultRepo implements store.ResultRepo for testing.
type mockResultRepo struct {
	results []store.ResultRecord
	err     error
	opts    store.QueryOpts
}

func (m *mockResultRepo) AppendResult(_ context.Context, _ store.ResultData) error {
	return nil
}

func (m *mockResultRepo) QueryResults(_ context.Context, opts store.QueryOpts) ([]store.ResultRecord, error) {
	m.opts = opts
	return m.results, m.err
}

func (m *mockResultRepo) LatestResult(_ context.Context, _ string) (*store.ResultRecord, error) {
	return nil, nil
}

func sampleResults() []store.ResultRecord {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []store.ResultRecord{
		{
			Sequence:  2,
			Timestamp: ts.Add(time.Hour),
			ResultData: store.ResultData{
				SessionID: "s-2", Participant: "Bo", FinalRank: 16, FinalLabel: "1.0",
				Basis: "cleared", Reason: "user_requested", Trials: 9, Correct: 8,
				History: []store.TrialData{{Correct: true}, {Correct: false}},
			},
		},
		{
			Sequence:  1,
			Timestamp: ts,
			ResultData: store.ResultData{
				SessionID: "s-1", Participant: "Ana", FinalRank: 10, FinalLabel: "0.4",
				Basis: "reached", Reason: "mistake_limit", EndedByFailure: true, Trials: 3, Correct: 1,
			},
		},
	}
}

func loadedScreen(t *testing.T, repo *mockResultRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())
	return s
}

func TestHistoryScreen_Loads(t *testing.T) {
	repo := &mockResultRepo{results: sampleResults()}
	s := loadedScreen(t, repo)

	if repo.opts.Limit != pageSize {
		t.Errorf("query limit = %d, want %d", repo.opts.Limit, pageSize)
	}
	view := s.View(100, 24)
	for _, want := range []string{"Bo", "Ana", "level 1.0", "8/9 correct", "mistake limit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_LoadingAndEmpty(t *testing.T) {
	s := New(&mockResultRepo{})
	if !strings.Contains(s.View(80, 24), "Loading") {
		t.Error("expected loading state before results arrive")
	}
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 24), "No results yet") {
		t.Error("expected empty state")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := loadedScreen(t, &mockResultRepo{err: errors.New("db locked")})
	if !strings.Contains(s.View(80, 24), "db locked") {
		t.Error("expected error message in view")
	}
}

func TestHistoryScreen_NavigateAndExpand(t *testing.T) {
	s := loadedScreen(t, &mockResultRepo{results: sampleResults()})

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0 at top", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1 at bottom", s.selected)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.expanded[0] {
		t.Fatal("Enter should expand the selected row")
	}
	if !strings.Contains(s.View(100, 24), "✗") {
		t.Error("expanded row should show the trial strip")
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := loadedScreen(t, &mockResultRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestRowTextTruncatesLongNames(t *testing.T) {
	r := sampleResults()[0]
	r.Participant = "Bartholomew Featherstonehaugh"
	if !strings.Contains(RowText(r), "…") {
		t.Errorf("expected truncated name in %q", RowText(r))
	}
}
