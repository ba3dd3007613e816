package staircase

import (
	"fmt"
	"slices"
)

// Answer is a possible correct answer or participant response for one trial.
type Answer string

// Unknown is the explicit "can't tell" response. It is always scored incorrect.
const Unknown Answer = "unknown"

// Directions for the tumbling-E optotype. The direction is where the prongs point.
const (
	Up    Answer = "up"
	Right Answer = "right"
	Down  Answer = "down"
	Left  Answer = "left"
)

// Yes is the only answer of the legibility space.
const Yes Answer = "yes"

// Answer space names accepted by AnswerSpaceByName.
const (
	SpaceDirections = "directions"
	SpaceLetters    = "letters"
	SpaceLegibility = "legibility"
)

// AnswerSpace is the finite set of correct answers a trial can draw from.
type AnswerSpace struct {
	name    string
	answers []Answer
}

// NewAnswerSpace builds a named answer space. Answers must be unique,
// non-empty and must not include Unknown.
func NewAnswerSpace(name string, answers ...Answer) (AnswerSpace, error) {
	if len(answers) == 0 {
		return AnswerSpace{}, &ValidationError{Field: "answers", Reason: "answer space is empty"}
	}
	seen := make(map[Answer]bool, len(answers))
	for _, a := range answers {
		switch {
		case a == "":
			return AnswerSpace{}, &ValidationError{Field: "answers", Reason: "empty answer"}
		case a == Unknown:
			return AnswerSpace{}, &ValidationError{Field: "answers", Reason: fmt.Sprintf("%q is reserved", Unknown)}
		case seen[a]:
			return AnswerSpace{}, &ValidationError{Field: "answers", Reason: fmt.Sprintf("duplicate answer %q", a)}
		}
		seen[a] = true
	}
	return AnswerSpace{name: name, answers: slices.Clone(answers)}, nil
}

func mustAnswerSpace(name string, answers ...Answer) AnswerSpace {
	s, err := NewAnswerSpace(name, answers...)
	if err != nil {
		panic(err)
	}
	return s
}

// Directions is the four-way tumbling-E space.
func Directions() AnswerSpace {
	return mustAnswerSpace(SpaceDirections, Up, Right, Down, Left)
}

// Letters is the ten Sloan letters.
func Letters() AnswerSpace {
	return mustAnswerSpace(SpaceLetters, "C", "D", "H", "K", "N", "O", "R", "S", "V", "Z")
}

// Legibility is the single-answer "can you read it" space.
func Legibility() AnswerSpace {
	return mustAnswerSpace(SpaceLegibility, Yes)
}

// AnswerSpaceByName resolves one of the built-in spaces.
func AnswerSpaceByName(name string) (AnswerSpace, error) {
	switch name {
	case SpaceDirections:
		return Directions(), nil
	case SpaceLetters:
		return Letters(), nil
	case SpaceLegibility:
		return Legibility(), nil
	}
	return AnswerSpace{}, &ValidationError{Field: "answers", Reason: fmt.Sprintf("unknown answer space %q", name)}
}

// Name returns the space name.
func (s AnswerSpace) Name() string { return s.name }

// Len returns the number of answers.
func (s AnswerSpace) Len() int { return len(s.answers) }

// Answers returns a copy of the answers in declaration order.
func (s AnswerSpace) Answers() []Answer { return slices.Clone(s.answers) }

// Contains reports whether a is one of the space's answers.
func (s AnswerSpace) Contains(a Answer) bool { return slices.Contains(s.answers, a) }

// Labels returns the choices a presenter offers: every answer plus Unknown.
func (s AnswerSpace) Labels() []Answer {
	return append(s.Answers(), Unknown)
}
