package staircase

import (
	"context"
	"errors"
	"fmt"
)

// Presenter shows a stimulus and collects one discrete choice from labels
// (the answer space plus Unknown). Returning ErrQuit ends the session at the
// participant's request.
type Presenter interface {
	Present(ctx context.Context, s Stimulus, labels []Answer) (Answer, error)
}

// Run drives a started controller against p until the session ends. The
// session ends by mistake limit, by the presenter returning ErrQuit, or by
// ctx being cancelled. A rejected response re-presents the same stimulus.
//
// The returned error is nil or a *PersistenceError whenever a result is
// returned; any other error leaves the session open.
func Run(ctx context.Context, c *Controller, p Presenter) (*ResultRecord, error) {
	if !c.Started() {
		return nil, fmt.Errorf("run: %w", ErrInvalidState)
	}
	labels := c.cfg.Answers.Labels()

	for !c.Terminal() {
		if ctx.Err() != nil {
			return c.End(context.WithoutCancel(ctx), EndUserRequested)
		}

		stim, err := c.NextStimulus()
		if err != nil {
			return nil, err
		}

		resp, err := p.Present(ctx, stim, labels)
		switch {
		case errors.Is(err, ErrQuit), errors.Is(err, context.Canceled):
			return c.End(context.WithoutCancel(ctx), EndUserRequested)
		case err != nil:
			return nil, fmt.Errorf("present trial %d: %w", stim.Number, err)
		}

		if _, err := c.Submit(resp); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				continue
			}
			return nil, err
		}
	}

	reason := EndUserRequested
	if c.EndedByFailure() {
		reason = EndMistakeLimit
	}
	return c.End(ctx, reason)
}
