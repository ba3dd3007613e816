package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// In-memory databases report journal_mode "memory"; WAL is
		// covered by TestFileStoreUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileStoreUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acuity.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"session_events", "trial_events", "result_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acuity.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.ResultRepo().AppendResult(ctx, ResultData{SessionID: "s1", Participant: "Aiko", FinalLabel: "0.4"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	recs, err := s.ResultRepo().QueryResults(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 || recs[0].SessionID != "s1" {
		t.Fatalf("results after reopen = %+v, want one s1 row", recs)
	}

	// Sequence continues rather than restarting.
	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq != 2 {
		t.Errorf("sequence after reopen = %d, want 2", seq)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// A second counter over the same table must not reseed it.
	sc, err := newSequenceCounter(ctx, s.drv)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Participant: "Aiko", Action: "start"}); err != nil {
		t.Fatalf("append start: %v", err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "other", Participant: "Ben", Action: "start"}); err != nil {
		t.Fatalf("append other: %v", err)
	}
	end := SessionEventData{
		SessionID: "s1", Participant: "Aiko", Action: "end",
		Reason: "mistake_limit", Trials: 6, Correct: 3, FinalRank: 11,
	}
	if err := repo.AppendSessionEvent(ctx, end); err != nil {
		t.Fatalf("append end: %v", err)
	}

	got, err := repo.SessionEvents(ctx, "s1")
	if err != nil {
		t.Fatalf("session events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Action != "start" || got[1].Action != "end" {
		t.Errorf("actions = %q, %q; want start, end", got[0].Action, got[1].Action)
	}
	if got[0].Sequence >= got[1].Sequence {
		t.Errorf("sequences not increasing: %d, %d", got[0].Sequence, got[1].Sequence)
	}
	if got[1].SessionEventData != end {
		t.Errorf("end event = %+v, want %+v", got[1].SessionEventData, end)
	}
	if got[1].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestTrialsForSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	trials := []TrialEventData{
		{SessionID: "s1", TrialNumber: 1, Rank: 10, Label: "0.4", Magnitude: 50, CorrectAnswer: "up", Response: "up", Correct: true, Transition: "stayed"},
		{SessionID: "s1", TrialNumber: 2, Rank: 10, Label: "0.4", Magnitude: 50, CorrectAnswer: "left", Response: "unknown", Correct: false, Transition: "stayed"},
	}
	for _, tr := range trials {
		if err := repo.AppendTrialEvent(ctx, tr); err != nil {
			t.Fatalf("append trial: %v", err)
		}
	}

	got, err := repo.TrialsForSession(ctx, "s1")
	if err != nil {
		t.Fatalf("trials: %v", err)
	}
	if len(got) != len(trials) {
		t.Fatalf("got %d trials, want %d", len(got), len(trials))
	}
	for i := range trials {
		if got[i].TrialEventData != trials[i] {
			t.Errorf("trial %d = %+v, want %+v", i, got[i].TrialEventData, trials[i])
		}
	}

	none, err := repo.TrialsForSession(ctx, "missing")
	if err != nil {
		t.Fatalf("trials (missing): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d trials for unknown session, want 0", len(none))
	}
}

func TestResultRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	data := ResultData{
		SessionID:      "s1",
		Participant:    "Aiko",
		FinalRank:      10,
		FinalLabel:     "0.4",
		Basis:          "cleared",
		Reason:         "mistake_limit",
		EndedByFailure: true,
		Trials:         5,
		Correct:        3,
		Cleared:        []LevelData{{Rank: 10, Label: "0.4"}},
		History: []TrialData{
			{Rank: 10, Label: "0.4", Answer: "up", Response: "up", Correct: true},
			{Rank: 11, Label: "0.5", Answer: "down", Response: "left", Correct: false},
		},
	}
	if err := repo.AppendResult(ctx, data); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.LatestResult(ctx, "Aiko")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil {
		t.Fatal("expected a result")
	}
	if got.FinalLabel != "0.4" || got.Basis != "cleared" || !got.EndedByFailure {
		t.Errorf("result = %+v", got.ResultData)
	}
	if len(got.Cleared) != 1 || got.Cleared[0] != data.Cleared[0] {
		t.Errorf("cleared = %+v, want %+v", got.Cleared, data.Cleared)
	}
	if len(got.History) != 2 || got.History[1] != data.History[1] {
		t.Errorf("history = %+v, want %+v", got.History, data.History)
	}
}

func TestResultEmptySlices(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	if err := repo.AppendResult(ctx, ResultData{SessionID: "s1", Participant: "Aiko", Basis: "none"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := repo.LatestResult(ctx, "Aiko")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Cleared == nil || got.History == nil {
		t.Errorf("expected empty, non-nil slices; got cleared=%v history=%v", got.Cleared, got.History)
	}
}

func TestQueryResults(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	for _, p := range []string{"Aiko", "Ben", "Aiko", "Cleo"} {
		if err := repo.AppendResult(ctx, ResultData{SessionID: p + "-session", Participant: p}); err != nil {
			t.Fatalf("append %s: %v", p, err)
		}
	}

	all, err := repo.QueryResults(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d results, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Sequence <= all[i].Sequence {
			t.Errorf("results not newest first at %d: %d then %d", i, all[i-1].Sequence, all[i].Sequence)
		}
	}

	aiko, err := repo.QueryResults(ctx, QueryOpts{Participant: "Aiko"})
	if err != nil {
		t.Fatalf("query Aiko: %v", err)
	}
	if len(aiko) != 2 {
		t.Errorf("got %d results for Aiko, want 2", len(aiko))
	}

	limited, err := repo.QueryResults(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 2 || limited[0].Participant != "Cleo" {
		t.Errorf("limited = %+v", limited)
	}

	after, err := repo.QueryResults(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].Sequence != all[0].Sequence {
		t.Errorf("after = %+v, want only the newest", after)
	}
}

func TestLatestResultNone(t *testing.T) {
	s := openTestStore(t)

	got, err := s.ResultRepo().LatestResult(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "x.db")
	t.Setenv("ACUITY_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestDefaultLogPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ACUITY_LOG", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultLogPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "acuity", "acuity.log"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
