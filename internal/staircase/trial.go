package staircase

import "time"

// Stimulus is what the presenter renders for one trial.
type Stimulus struct {
	Level     Level
	Magnitude float64
	Answer    Answer // the correct answer

	// Number is the 1-based index of the trial within the session.
	Number int
}

// Trial is one recorded stimulus/response exchange. Trials are never edited
// once appended to a session's history.
type Trial struct {
	Level    Level // level active when the response was submitted
	Answer   Answer
	Response Answer
	Correct  bool
	At       time.Time
}

// Transition describes what a submitted response did to the session.
type Transition string

const (
	TransitionStayed  Transition = "stayed"  // same level, counters kept
	TransitionCleared Transition = "cleared" // pass threshold reached, promoted unless at the top
	TransitionDemoted Transition = "demoted" // bounded-trials window exhausted
	TransitionFailed  Transition = "failed"  // mistake limit reached, session over
)

// Outcome is the result of Controller.Submit.
type Outcome struct {
	Trial      Trial
	Transition Transition
	From       Level
	To         Level

	// TrialCount and CorrectCount are the attempt-window counters after the
	// transition (zero after a level change).
	TrialCount   int
	CorrectCount int

	// Terminal is true when the session can accept no more responses.
	Terminal bool
}

// EventKind identifies a session lifecycle event.
type EventKind string

const (
	EventStarted EventKind = "start"
	EventTrial   EventKind = "trial"
	EventEnded   EventKind = "end"
)

// Event is delivered to an Observer as the session progresses.
type Event struct {
	Kind        EventKind
	SessionID   string
	Participant string
	At          time.Time

	Outcome *Outcome      // EventTrial only
	Result  *ResultRecord // EventEnded only
}

// Observer receives session events synchronously, in order.
type Observer func(Event)
