package staircase

import "fmt"

// FailPolicy selects what happens when a level's attempt window goes badly.
type FailPolicy string

const (
	// MistakeLimit ends the whole session once the attempt window holds
	// FailThreshold incorrect answers.
	MistakeLimit FailPolicy = "mistake_limit"

	// BoundedTrials demotes one rank once the pass threshold can no longer be
	// reached within MaxTrialsPerLevel trials. The session continues.
	BoundedTrials FailPolicy = "bounded_trials"
)

// RepeatPolicy controls whether consecutive trials may share a correct answer.
type RepeatPolicy string

const (
	AllowRepeat           RepeatPolicy = "allow_repeat"
	ForbidImmediateRepeat RepeatPolicy = "forbid_immediate_repeat"
)

// Config holds the staircase parameters. It is fixed for the life of a Controller.
type Config struct {
	Ladder  *Ladder
	Answers AnswerSpace

	// PassThreshold is the number of correct answers within a level's
	// attempt window needed to clear it.
	PassThreshold int

	FailPolicy FailPolicy

	// FailThreshold is the mistake limit (MistakeLimit policy only).
	FailThreshold int

	// MaxTrialsPerLevel bounds the attempt window (BoundedTrials policy only).
	MaxTrialsPerLevel int

	// StartRank is the rank a session starts on. Default: 10 of 19.
	StartRank int

	RepeatPolicy RepeatPolicy
}

// DefaultConfig returns the standard chart: 19 levels starting mid-ladder,
// three correct to pass, two mistakes end the test.
func DefaultConfig() Config {
	return Config{
		Ladder:            DefaultLadder(),
		Answers:           Directions(),
		PassThreshold:     3,
		FailPolicy:        MistakeLimit,
		FailThreshold:     2,
		MaxTrialsPerLevel: 5,
		StartRank:         10,
		RepeatPolicy:      ForbidImmediateRepeat,
	}
}

// Validate checks that the configuration describes a runnable staircase.
func (c Config) Validate() error {
	if c.Ladder == nil || c.Ladder.Len() == 0 {
		return &ValidationError{Field: "ladder", Reason: "no levels configured"}
	}
	if c.Answers.Len() == 0 {
		return &ValidationError{Field: "answers", Reason: "answer space is empty"}
	}
	if c.PassThreshold < 1 {
		return &ValidationError{Field: "pass_threshold", Reason: fmt.Sprintf("must be at least 1, got %d", c.PassThreshold)}
	}

	switch c.FailPolicy {
	case MistakeLimit:
		if c.FailThreshold < 1 {
			return &ValidationError{Field: "fail_threshold", Reason: fmt.Sprintf("must be at least 1, got %d", c.FailThreshold)}
		}
	case BoundedTrials:
		if c.MaxTrialsPerLevel < c.PassThreshold {
			return &ValidationError{
				Field:  "max_trials_per_level",
				Reason: fmt.Sprintf("%d trials can never reach a pass threshold of %d", c.MaxTrialsPerLevel, c.PassThreshold),
			}
		}
	default:
		return &ValidationError{Field: "fail_policy", Reason: fmt.Sprintf("unknown policy %q", c.FailPolicy)}
	}

	if _, ok := c.Ladder.Level(c.StartRank); !ok {
		return &ValidationError{Field: "start_rank", Reason: fmt.Sprintf("%d is outside 1..%d", c.StartRank, c.Ladder.Len())}
	}

	switch c.RepeatPolicy {
	case AllowRepeat, ForbidImmediateRepeat:
	default:
		return &ValidationError{Field: "repeat_policy", Reason: fmt.Sprintf("unknown policy %q", c.RepeatPolicy)}
	}
	return nil
}

// effectiveRepeat returns the repeat policy the controller can actually honor.
// Forbidding repeats needs at least two answers.
func (c Config) effectiveRepeat() RepeatPolicy {
	if c.RepeatPolicy == ForbidImmediateRepeat && c.Answers.Len() < 2 {
		return AllowRepeat
	}
	return c.RepeatPolicy
}

// demoteAfter is the number of mistakes in one attempt window after which
// the pass threshold is out of reach.
func (c Config) demoteAfter() int {
	return c.MaxTrialsPerLevel - c.PassThreshold + 1
}

// MistakeBudget is the number of mistakes within one level that triggers
// the fail policy: the session ends under MistakeLimit, the level drops
// under BoundedTrials.
func (c Config) MistakeBudget() int {
	if c.FailPolicy == BoundedTrials {
		return c.demoteAfter()
	}
	return c.FailThreshold
}
