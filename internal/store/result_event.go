package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *resultRepo) AppendResult(ctx context.Context, data ResultData) error {
	cleared, err := json.Marshal(orEmpty(data.Cleared))
	if err != nil {
		return fmt.Errorf("encode cleared levels: %w", err)
	}
	history, err := json.Marshal(orEmpty(data.History))
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	seqNum, ts, err := r.seq.stamp(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(resultEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "participant", "final_rank", "final_label", "basis",
			"reason", "ended_by_failure", "trials", "correct", "cleared", "history").
		Values(seqNum, ts, data.SessionID, data.Participant, data.FinalRank, data.FinalLabel, data.Basis,
			data.Reason, data.EndedByFailure, data.Trials, data.Correct, string(cleared), string(history)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save result event: %w", err)
	}
	return nil
}

func (r *resultRepo) QueryResults(ctx context.Context, opts QueryOpts) ([]ResultRecord, error) {
	t := entsql.Table(resultEventsTable.Name)
	sel := builder().
		Select(t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("participant"), t.C("final_rank"),
			t.C("final_label"), t.C("basis"), t.C("reason"), t.C("ended_by_failure"), t.C("trials"),
			t.C("correct"), t.C("cleared"), t.C("history")).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence")))

	if opts.Participant != "" {
		sel.Where(entsql.EQ(t.C("participant"), opts.Participant))
	}
	if opts.After > 0 {
		sel.Where(entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec              ResultRecord
			cleared, history []byte
		)
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Participant, &rec.FinalRank,
			&rec.FinalLabel, &rec.Basis, &rec.Reason, &rec.EndedByFailure, &rec.Trials,
			&rec.Correct, &cleared, &history); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(cleared, &rec.Cleared); err != nil {
			return nil, fmt.Errorf("decode cleared levels: %w", err)
		}
		if err := json.Unmarshal(history, &rec.History); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	return out, nil
}

func (r *resultRepo) LatestResult(ctx context.Context, participant string) (*ResultRecord, error) {
	recs, err := r.QueryResults(ctx, QueryOpts{Limit: 1, Participant: participant})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// orEmpty keeps nil slices from being stored as JSON null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
