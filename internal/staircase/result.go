package staircase

import (
	"sort"
	"time"
)

// EndReason records why a session ended.
type EndReason string

const (
	EndUserRequested EndReason = "user_requested"
	EndMistakeLimit  EndReason = "mistake_limit"
)

// Basis explains how the final level was derived.
type Basis string

const (
	BasisCleared Basis = "cleared" // highest level whose pass threshold was met
	BasisReached Basis = "reached" // highest level with any correct answer, nothing cleared
	BasisNone    Basis = "none"    // no correct answers at all
)

// ResultRecord is the final, derived outcome of a session.
type ResultRecord struct {
	SessionID   string
	Participant string

	Final Level
	Basis Basis

	Cleared []Level // sorted by rank
	History []Trial

	Reason         EndReason
	EndedByFailure bool
	StartedAt      time.Time
	EndedAt        time.Time
}

// Correct returns the number of correct trials in the history.
func (r *ResultRecord) Correct() int {
	n := 0
	for _, t := range r.History {
		if t.Correct {
			n++
		}
	}
	return n
}

// FinalLevel derives the achieved level from the cleared set and the trial
// history. A cleared level always wins; otherwise the highest level with a
// correct trial counts; otherwise the ladder's below-minimum sentinel.
func FinalLevel(ladder *Ladder, cleared []Level, history []Trial) (Level, Basis) {
	if len(cleared) > 0 {
		best := cleared[0]
		for _, l := range cleared[1:] {
			if l.Rank > best.Rank {
				best = l
			}
		}
		return best, BasisCleared
	}

	var best Level
	found := false
	for _, t := range history {
		if t.Correct && (!found || t.Level.Rank > best.Rank) {
			best = t.Level
			found = true
		}
	}
	if found {
		return best, BasisReached
	}
	return ladder.BelowMinimum(), BasisNone
}

func sortedLevels(set map[int]Level) []Level {
	out := make([]Level, 0, len(set))
	for _, l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
