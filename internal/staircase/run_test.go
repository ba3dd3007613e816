package staircase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPresenter answers from a script; true answers correctly, false
// answers Unknown. When the script runs out it returns quitErr.
type scriptedPresenter struct {
	script  []bool
	quitErr error
	seen    []Stimulus
	labels  []Answer
}

func (p *scriptedPresenter) Present(_ context.Context, s Stimulus, labels []Answer) (Answer, error) {
	p.seen = append(p.seen, s)
	p.labels = labels
	if len(p.script) == 0 {
		return "", p.quitErr
	}
	next := p.script[0]
	p.script = p.script[1:]
	if next {
		return s.Answer, nil
	}
	return Unknown, nil
}

func TestRun_EndsOnMistakeLimit(t *testing.T) {
	rec := &fakeRecorder{}
	c := newTestController(t, DefaultConfig(), WithRecorder(rec))
	p := &scriptedPresenter{script: []bool{true, true, true, true, false, false}, quitErr: ErrQuit}

	res, err := Run(context.Background(), c, p)
	require.NoError(t, err)
	assert.Equal(t, EndMistakeLimit, res.Reason)
	assert.True(t, res.EndedByFailure)
	assert.Equal(t, 10, res.Final.Rank)
	assert.Equal(t, BasisCleared, res.Basis)
	assert.Len(t, res.History, 6)
	assert.Len(t, rec.records, 1)
	assert.Equal(t, []Answer{Up, Right, Down, Left, Unknown}, p.labels)
}

func TestRun_QuitEndsByRequest(t *testing.T) {
	c := newTestController(t, boundedConfig())
	p := &scriptedPresenter{script: []bool{true, false}, quitErr: ErrQuit}

	res, err := Run(context.Background(), c, p)
	require.NoError(t, err)
	assert.Equal(t, EndUserRequested, res.Reason)
	assert.False(t, res.EndedByFailure)
	assert.Len(t, res.History, 2)
	assert.Equal(t, BasisReached, res.Basis)
}

func TestRun_CancelledContextEnds(t *testing.T) {
	rec := &fakeRecorder{}
	c := newTestController(t, boundedConfig(), WithRecorder(rec))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, c, &scriptedPresenter{})
	require.NoError(t, err)
	assert.Equal(t, EndUserRequested, res.Reason)
	assert.Empty(t, res.History)
	assert.Len(t, rec.records, 1)
}

func TestRun_PresenterErrorLeavesSessionOpen(t *testing.T) {
	c := newTestController(t, boundedConfig())
	p := &scriptedPresenter{quitErr: errors.New("terminal gone")}

	res, err := Run(context.Background(), c, p)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "terminal gone")
	assert.False(t, c.Terminal())
}

type foreignPresenter struct {
	calls int
}

func (p *foreignPresenter) Present(_ context.Context, s Stimulus, _ []Answer) (Answer, error) {
	p.calls++
	switch p.calls {
	case 1:
		return "sideways", nil
	case 2:
		return s.Answer, nil
	}
	return "", ErrQuit
}

func TestRun_RepresentsAfterRejectedResponse(t *testing.T) {
	c := newTestController(t, DefaultConfig())
	p := &foreignPresenter{}

	res, err := Run(context.Background(), c, p)
	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
	require.Len(t, res.History, 1)
	assert.True(t, res.History[0].Correct)
}

func TestRun_RequiresStartedController(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	_, err = Run(context.Background(), c, &scriptedPresenter{})
	assert.ErrorIs(t, err, ErrInvalidState)
}
