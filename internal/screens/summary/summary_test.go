package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/acuity/internal/router"
	"github.com/abhisek/acuity/internal/staircase"
)

func testResult() *staircase.ResultRecord {
	ladder := staircase.DefaultLadder()
	l4, _ := ladder.ByLabel("0.4")
	l5, _ := ladder.ByLabel("0.5")
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var history []staircase.Trial
	for i := 0; i < 3; i++ {
		history = append(history, staircase.Trial{Level: l4, Answer: staircase.Up, Response: staircase.Up, Correct: true})
	}
	history = append(history,
		staircase.Trial{Level: l5, Answer: staircase.Left, Response: staircase.Unknown},
		staircase.Trial{Level: l5, Answer: staircase.Down, Response: staircase.Up},
	)

	return &staircase.ResultRecord{
		SessionID:      "s-1",
		Participant:    "Ana",
		Final:          l4,
		Basis:          staircase.BasisCleared,
		Cleared:        []staircase.Level{l4},
		History:        history,
		Reason:         staircase.EndMistakeLimit,
		EndedByFailure: true,
		StartedAt:      start,
		EndedAt:        start.Add(95 * time.Second),
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult(), nil)
	if s.Title() != "Result" {
		t.Errorf("Title = %q, want %q", s.Title(), "Result")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testResult(), nil).View(80, 24)
	for _, want := range []string{"Ana", "0.4", "highest level cleared", "mistake limit", "1:35"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "not saved") {
		t.Error("no warning expected when the result was recorded")
	}
}

func TestSummaryScreen_PersistenceWarning(t *testing.T) {
	view := New(testResult(), errors.New("disk full")).View(80, 24)
	if !strings.Contains(view, "Result not saved: disk full") {
		t.Error("expected a persistence warning")
	}
}

func TestSummaryScreen_NilResult(t *testing.T) {
	if New(nil, nil).View(80, 24) != "" {
		t.Error("expected empty view for nil result")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, key := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testResult(), nil)
		_, cmd := s.Update(tea.KeyPressMsg{Code: key})
		if cmd == nil {
			t.Fatalf("expected a command on key %d", key)
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("expected PopScreenMsg on key %d", key)
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testResult(), nil)
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}

func TestTrialStrip(t *testing.T) {
	strip := TrialStrip(testResult().History, 80)
	if got := strings.Count(strip, "✓"); got != 3 {
		t.Errorf("✓ count = %d, want 3", got)
	}
	if got := strings.Count(strip, "✗"); got != 2 {
		t.Errorf("✗ count = %d, want 2", got)
	}

	wrapped := TrialStrip(testResult().History, 4)
	if got := strings.Count(wrapped, "\n"); got != 2 {
		t.Errorf("wrapped lines = %d, want 2 breaks", got)
	}
}

func TestClearedText(t *testing.T) {
	if ClearedText(nil) != "none" {
		t.Errorf("ClearedText(nil) = %q", ClearedText(nil))
	}
	if got := ClearedText(testResult().Cleared); got != "0.4" {
		t.Errorf("ClearedText = %q", got)
	}
}
