package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, ts, err := r.seq.stamp(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(sessionEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "participant", "action", "reason", "trials", "correct", "final_rank").
		Values(seqNum, ts, data.SessionID, data.Participant, data.Action, data.Reason, data.Trials, data.Correct, data.FinalRank).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendTrialEvent(ctx context.Context, data TrialEventData) error {
	seqNum, ts, err := r.seq.stamp(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(trialEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "trial_number", "rank", "label", "magnitude",
			"correct_answer", "response", "correct", "transition").
		Values(seqNum, ts, data.SessionID, data.TrialNumber, data.Rank, data.Label, data.Magnitude,
			data.CorrectAnswer, data.Response, data.Correct, data.Transition).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save trial event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionEvents(ctx context.Context, sessionID string) ([]SessionEventRecord, error) {
	t := entsql.Table(sessionEventsTable.Name)
	query, args := builder().
		Select(t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("participant"), t.C("action"),
			t.C("reason"), t.C("trials"), t.C("correct"), t.C("final_rank")).
		From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID)).
		OrderBy(t.C("sequence")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventRecord
	for rows.Next() {
		var rec SessionEventRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Participant, &rec.Action,
			&rec.Reason, &rec.Trials, &rec.Correct, &rec.FinalRank); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) TrialsForSession(ctx context.Context, sessionID string) ([]TrialEventRecord, error) {
	t := entsql.Table(trialEventsTable.Name)
	query, args := builder().
		Select(t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("trial_number"), t.C("rank"),
			t.C("label"), t.C("magnitude"), t.C("correct_answer"), t.C("response"), t.C("correct"), t.C("transition")).
		From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID)).
		OrderBy(t.C("sequence")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query trial events: %w", err)
	}
	defer rows.Close()

	var out []TrialEventRecord
	for rows.Next() {
		var rec TrialEventRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.TrialNumber, &rec.Rank,
			&rec.Label, &rec.Magnitude, &rec.CorrectAnswer, &rec.Response, &rec.Correct, &rec.Transition); err != nil {
			return nil, fmt.Errorf("scan trial event: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query trial events: %w", err)
	}
	return out, nil
}
