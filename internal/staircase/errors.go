package staircase

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when an operation is called outside its valid
// state: before Start, or after the session became terminal.
var ErrInvalidState = errors.New("invalid session state")

// ErrQuit is returned by a Presenter when the participant asks to stop.
var ErrQuit = errors.New("participant quit")

// ValidationError reports a rejected input. The transition it guarded did not happen.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a Recorder failure. The result it accompanies is
// still valid and unchanged.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record result: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
