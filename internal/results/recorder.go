// Package results connects staircase sessions to the event store.
package results

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/store"
)

// Recorder writes final results to a store.ResultRepo. It satisfies
// staircase.Recorder.
type Recorder struct {
	repo store.ResultRepo
}

// NewRecorder returns a Recorder backed by repo.
func NewRecorder(repo store.ResultRepo) *Recorder {
	return &Recorder{repo: repo}
}

// Record stores r as one result row.
func (rec *Recorder) Record(ctx context.Context, r *staircase.ResultRecord) error {
	if r == nil {
		return errors.New("record: nil result")
	}
	return rec.repo.AppendResult(ctx, ToResultData(r))
}

// ToResultData flattens a result into its stored form.
func ToResultData(r *staircase.ResultRecord) store.ResultData {
	cleared := make([]store.LevelData, len(r.Cleared))
	for i, l := range r.Cleared {
		cleared[i] = store.LevelData{Rank: l.Rank, Label: l.Label}
	}
	history := make([]store.TrialData, len(r.History))
	for i, t := range r.History {
		history[i] = store.TrialData{
			Rank:     t.Level.Rank,
			Label:    t.Level.Label,
			Answer:   string(t.Answer),
			Response: string(t.Response),
			Correct:  t.Correct,
		}
	}
	return store.ResultData{
		SessionID:      r.SessionID,
		Participant:    r.Participant,
		FinalRank:      r.Final.Rank,
		FinalLabel:     r.Final.Label,
		Basis:          string(r.Basis),
		Reason:         string(r.Reason),
		EndedByFailure: r.EndedByFailure,
		Trials:         len(r.History),
		Correct:        r.Correct(),
		Cleared:        cleared,
		History:        history,
	}
}

// Manual entries carry this basis and reason instead of a staircase one.
const (
	BasisManual  = "manual"
	ReasonManual = "manual"
)

// RecordManual stores a level entered by hand for participant. The level
// must belong to ladder.
func (rec *Recorder) RecordManual(ctx context.Context, ladder *staircase.Ladder, participant, label string) (store.ResultData, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return store.ResultData{}, &staircase.ValidationError{Field: "name", Reason: "name is required"}
	}
	level, ok := ladder.ByLabel(label)
	if !ok {
		return store.ResultData{}, &staircase.ValidationError{
			Field:  "level",
			Reason: fmt.Sprintf("%q is not a level on the chart", label),
		}
	}

	data := store.ResultData{
		SessionID:   uuid.New().String(),
		Participant: participant,
		FinalRank:   level.Rank,
		FinalLabel:  level.Label,
		Basis:       BasisManual,
		Reason:      ReasonManual,
		Cleared:     []store.LevelData{},
		History:     []store.TrialData{},
	}
	if err := rec.repo.AppendResult(ctx, data); err != nil {
		return store.ResultData{}, err
	}
	return data, nil
}
