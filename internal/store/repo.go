package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit       int    // max results (0 = unlimited)
	After       int64  // sequence > After
	Participant string // exact participant name ("" = everyone)
}

// SessionEventData captures a session lifecycle event (start or end).
type SessionEventData struct {
	SessionID   string
	Participant string
	Action      string // "start" or "end"
	Reason      string // end only
	Trials      int    // end only
	Correct     int    // end only
	FinalRank   int    // end only
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// TrialEventData captures one submitted response.
type TrialEventData struct {
	SessionID     string
	TrialNumber   int
	Rank          int
	Label         string
	Magnitude     float64
	CorrectAnswer string
	Response      string
	Correct       bool
	Transition    string
}

// TrialEventRecord is a stored trial event.
type TrialEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	TrialEventData
}

// LevelData is the serialized form of a ladder level.
type LevelData struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
}

// TrialData is the serialized form of a history entry.
type TrialData struct {
	Rank     int    `json:"rank"`
	Label    string `json:"label"`
	Answer   string `json:"answer"`
	Response string `json:"response"`
	Correct  bool   `json:"correct"`
}

// ResultData is the final result of one test, one row per session.
type ResultData struct {
	SessionID      string
	Participant    string
	FinalRank      int
	FinalLabel     string
	Basis          string
	Reason         string
	EndedByFailure bool
	Trials         int
	Correct        int
	Cleared        []LevelData
	History        []TrialData
}

// ResultRecord is a stored result.
type ResultRecord struct {
	Sequence  int64
	Timestamp time.Time
	ResultData
}

// EventRepo provides append and query access to session and trial events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendTrialEvent records one trial.
	AppendTrialEvent(ctx context.Context, data TrialEventData) error

	// SessionEvents returns session events in sequence order.
	SessionEvents(ctx context.Context, sessionID string) ([]SessionEventRecord, error)

	// TrialsForSession returns a session's trials in sequence order.
	TrialsForSession(ctx context.Context, sessionID string) ([]TrialEventRecord, error)
}

// ResultRepo stores and lists final results.
type ResultRepo interface {
	// AppendResult records a final result.
	AppendResult(ctx context.Context, data ResultData) error

	// QueryResults returns results newest first.
	QueryResults(ctx context.Context, opts QueryOpts) ([]ResultRecord, error)

	// LatestResult returns the newest result for participant, or nil if none exist.
	LatestResult(ctx context.Context, participant string) (*ResultRecord, error)
}

type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

type resultRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

// builder returns an SQL builder for the store's dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
