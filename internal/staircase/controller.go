package staircase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists a final result. Failures are reported, never retried.
type Recorder interface {
	Record(ctx context.Context, r *ResultRecord) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the source used to draw correct answers.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithRecorder sets the sink End hands the result to.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the logger. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides time.Now for trial and session timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithObserver registers a callback for session events.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// Controller owns one adaptive test session. It is not safe for concurrent
// use; each participant gets their own Controller.
type Controller struct {
	cfg       Config
	repeat    RepeatPolicy
	rng       *rand.Rand
	recorder  Recorder
	logger    *zap.Logger
	now       func() time.Time
	observers []Observer

	started     bool
	sessionID   string
	participant string
	startedAt   time.Time

	level        Level
	answer       Answer
	trialCount   int
	correctCount int
	cleared      map[int]Level
	history      []Trial

	terminal       bool
	endedByFailure bool
	result         *ResultRecord
}

// New validates cfg and returns an idle controller. Call Start to begin.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:    cfg,
		repeat: cfg.effectiveRepeat(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.repeat != cfg.RepeatPolicy {
		c.logger.Info("repeat policy downgraded",
			zap.String("answers", cfg.Answers.Name()),
			zap.Int("size", cfg.Answers.Len()),
			zap.String("effective", string(c.repeat)))
	}
	return c, nil
}

// Start resets all state and begins a session for participant.
func (c *Controller) Start(participant string) error {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return &ValidationError{Field: "participant", Reason: "name is required"}
	}

	c.started = true
	c.sessionID = uuid.New().String()
	c.participant = participant
	c.startedAt = c.now()
	c.level = c.cfg.Ladder.clamp(c.cfg.StartRank)
	c.trialCount = 0
	c.correctCount = 0
	c.cleared = make(map[int]Level)
	c.history = nil
	c.terminal = false
	c.endedByFailure = false
	c.result = nil
	c.answer = ""
	c.answer = c.draw()

	c.logger.Info("session started",
		zap.String("session_id", c.sessionID),
		zap.String("participant", participant),
		zap.String("level", c.level.Label))
	c.emit(Event{Kind: EventStarted, At: c.startedAt})
	return nil
}

// NextStimulus returns the stimulus for the pending trial. It does not
// change state and may be called any number of times per trial.
func (c *Controller) NextStimulus() (Stimulus, error) {
	if !c.started || c.terminal {
		return Stimulus{}, fmt.Errorf("next stimulus: %w", ErrInvalidState)
	}
	return Stimulus{
		Level:     c.level,
		Magnitude: c.level.Magnitude,
		Answer:    c.answer,
		Number:    len(c.history) + 1,
	}, nil
}

// Submit scores resp against the pending trial and applies the staircase
// transition. A response outside the answer space (other than Unknown) is
// rejected with a ValidationError and does not count as a trial.
func (c *Controller) Submit(resp Answer) (*Outcome, error) {
	if !c.started || c.terminal {
		return nil, fmt.Errorf("submit: %w", ErrInvalidState)
	}
	if resp != Unknown && !c.cfg.Answers.Contains(resp) {
		return nil, &ValidationError{
			Field:  "response",
			Reason: fmt.Sprintf("%q is not a %s answer", resp, c.cfg.Answers.Name()),
		}
	}

	trial := Trial{
		Level:    c.level,
		Answer:   c.answer,
		Response: resp,
		Correct:  resp != Unknown && resp == c.answer,
		At:       c.now(),
	}
	c.history = append(c.history, trial)
	c.trialCount++
	if trial.Correct {
		c.correctCount++
	}

	out := &Outcome{
		Trial:      trial,
		Transition: TransitionStayed,
		From:       c.level,
	}
	mistakes := c.trialCount - c.correctCount

	// Failure is checked before clearing and wins if both hold.
	switch {
	case c.cfg.FailPolicy == MistakeLimit && mistakes >= c.cfg.FailThreshold:
		c.terminal = true
		c.endedByFailure = true
		out.Transition = TransitionFailed
		c.logger.Info("mistake limit reached",
			zap.String("session_id", c.sessionID),
			zap.String("level", c.level.Label),
			zap.Int("mistakes", mistakes))

	case c.cfg.FailPolicy == BoundedTrials && mistakes >= c.cfg.demoteAfter():
		c.moveTo(c.level.Rank - 1)
		out.Transition = TransitionDemoted

	case c.correctCount >= c.cfg.PassThreshold:
		if _, ok := c.cleared[c.level.Rank]; !ok {
			c.cleared[c.level.Rank] = c.level
		}
		c.moveTo(c.level.Rank + 1)
		out.Transition = TransitionCleared
	}

	out.To = c.level
	out.TrialCount = c.trialCount
	out.CorrectCount = c.correctCount
	out.Terminal = c.terminal

	if !c.terminal {
		c.answer = c.draw()
	}

	c.logger.Debug("trial submitted",
		zap.String("session_id", c.sessionID),
		zap.Int("trial", len(c.history)),
		zap.String("level", trial.Level.Label),
		zap.Bool("correct", trial.Correct),
		zap.String("transition", string(out.Transition)),
		zap.String("next_level", out.To.Label))
	c.emit(Event{Kind: EventTrial, At: trial.At, Outcome: out})
	return out, nil
}

// End finishes the session and derives its result. The result is handed to
// the Recorder once; a Recorder failure is returned as *PersistenceError
// alongside the still-valid result. Calling End again returns the same
// result without recording it a second time.
func (c *Controller) End(ctx context.Context, reason EndReason) (*ResultRecord, error) {
	if !c.started {
		return nil, fmt.Errorf("end: %w", ErrInvalidState)
	}
	if c.result != nil {
		return c.result, nil
	}
	switch reason {
	case EndUserRequested, EndMistakeLimit:
	default:
		return nil, &ValidationError{Field: "reason", Reason: fmt.Sprintf("unknown end reason %q", reason)}
	}

	c.terminal = true
	if reason == EndMistakeLimit {
		c.endedByFailure = true
	}

	cleared := sortedLevels(c.cleared)
	final, basis := FinalLevel(c.cfg.Ladder, cleared, c.history)
	c.result = &ResultRecord{
		SessionID:      c.sessionID,
		Participant:    c.participant,
		Final:          final,
		Basis:          basis,
		Cleared:        cleared,
		History:        slices.Clone(c.history),
		Reason:         reason,
		EndedByFailure: c.endedByFailure,
		StartedAt:      c.startedAt,
		EndedAt:        c.now(),
	}

	c.logger.Info("session ended",
		zap.String("session_id", c.sessionID),
		zap.String("reason", string(reason)),
		zap.String("final", final.Label),
		zap.String("basis", string(basis)),
		zap.Int("trials", len(c.history)))
	c.emit(Event{Kind: EventEnded, At: c.result.EndedAt, Result: c.result})

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, c.result); err != nil {
			c.logger.Warn("result not recorded",
				zap.String("session_id", c.sessionID),
				zap.Error(err))
			return c.result, &PersistenceError{Err: err}
		}
	}
	return c.result, nil
}

// moveTo changes level (clamped to the ladder) and opens a fresh attempt window.
func (c *Controller) moveTo(rank int) {
	c.level = c.cfg.Ladder.clamp(rank)
	c.trialCount = 0
	c.correctCount = 0
}

// draw picks the next correct answer uniformly, excluding the previous one
// when repeats are forbidden.
func (c *Controller) draw() Answer {
	answers := c.cfg.Answers.answers
	if c.repeat == ForbidImmediateRepeat && c.answer != "" {
		prev := slices.Index(answers, c.answer)
		i := c.rng.IntN(len(answers) - 1)
		if i >= prev {
			i++
		}
		return answers[i]
	}
	return answers[c.rng.IntN(len(answers))]
}

func (c *Controller) emit(ev Event) {
	ev.SessionID = c.sessionID
	ev.Participant = c.participant
	for _, o := range c.observers {
		o(ev)
	}
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config { return c.cfg }

// SessionID returns the current session's ID, or "" before Start.
func (c *Controller) SessionID() string { return c.sessionID }

// Participant returns the current participant's name.
func (c *Controller) Participant() string { return c.participant }

// Started reports whether Start has been called.
func (c *Controller) Started() bool { return c.started }

// Terminal reports whether the session accepts no more responses.
func (c *Controller) Terminal() bool { return c.terminal }

// EndedByFailure reports whether the mistake limit ended the session.
func (c *Controller) EndedByFailure() bool { return c.endedByFailure }

// Level returns the current level.
func (c *Controller) Level() Level { return c.level }

// Counters returns the attempt-window trial and correct counts.
func (c *Controller) Counters() (trials, correct int) { return c.trialCount, c.correctCount }

// Cleared returns the cleared levels sorted by rank.
func (c *Controller) Cleared() []Level { return sortedLevels(c.cleared) }

// History returns a copy of the trial log.
func (c *Controller) History() []Trial { return slices.Clone(c.history) }
