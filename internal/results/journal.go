package results

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/store"
)

// Journal appends session and trial events as a session progresses. Observe
// is registered with staircase.WithObserver. Write failures are logged and
// never interrupt the test; the result row is the record of truth.
type Journal struct {
	repo   store.EventRepo
	logger *zap.Logger
	trials map[string]int
	failed int
}

// NewJournal returns a Journal writing to repo. A nil logger is replaced
// with a no-op one.
func NewJournal(repo store.EventRepo, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{repo: repo, logger: logger, trials: make(map[string]int)}
}

// Observe persists ev.
func (j *Journal) Observe(ev staircase.Event) {
	ctx := context.Background()

	var err error
	switch ev.Kind {
	case staircase.EventStarted:
		j.trials[ev.SessionID] = 0
		err = j.repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:   ev.SessionID,
			Participant: ev.Participant,
			Action:      "start",
		})

	case staircase.EventTrial:
		if ev.Outcome == nil {
			return
		}
		j.trials[ev.SessionID]++
		t := ev.Outcome.Trial
		err = j.repo.AppendTrialEvent(ctx, store.TrialEventData{
			SessionID:     ev.SessionID,
			TrialNumber:   j.trials[ev.SessionID],
			Rank:          t.Level.Rank,
			Label:         t.Level.Label,
			Magnitude:     t.Level.Magnitude,
			CorrectAnswer: string(t.Answer),
			Response:      string(t.Response),
			Correct:       t.Correct,
			Transition:    string(ev.Outcome.Transition),
		})

	case staircase.EventEnded:
		if ev.Result == nil {
			return
		}
		delete(j.trials, ev.SessionID)
		err = j.repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:   ev.SessionID,
			Participant: ev.Participant,
			Action:      "end",
			Reason:      string(ev.Result.Reason),
			Trials:      len(ev.Result.History),
			Correct:     ev.Result.Correct(),
			FinalRank:   ev.Result.Final.Rank,
		})
	}

	if err != nil {
		j.failed++
		j.logger.Warn("journal write failed",
			zap.String("session_id", ev.SessionID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err))
	}
}

// Failures returns how many event writes have failed.
func (j *Journal) Failures() int { return j.failed }
