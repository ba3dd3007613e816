package optotype

import (
	"strings"

	"github.com/abhisek/acuity/internal/staircase"
)

var directionKeys = map[string]staircase.Answer{
	"up": staircase.Up, "k": staircase.Up, "w": staircase.Up,
	"right": staircase.Right, "l": staircase.Right, "d": staircase.Right,
	"down": staircase.Down, "j": staircase.Down, "s": staircase.Down,
	"left": staircase.Left, "h": staircase.Left, "a": staircase.Left,
}

// ResponseForKey maps a key name (as reported by Bubble Tea) to a response
// in space. "?" and space mean Unknown in every space. ok is false for keys
// that carry no response.
func ResponseForKey(space staircase.AnswerSpace, key string) (staircase.Answer, bool) {
	switch key {
	case "?", "space", " ":
		return staircase.Unknown, true
	}

	switch space.Name() {
	case staircase.SpaceDirections:
		a, ok := directionKeys[key]
		return a, ok
	case staircase.SpaceLegibility:
		switch key {
		case "y", "enter":
			return staircase.Yes, true
		case "n":
			return staircase.Unknown, true
		}
		return "", false
	}

	// Letter keys, case-insensitive.
	if len(key) == 1 {
		a := staircase.Answer(strings.ToUpper(key))
		if space.Contains(a) {
			return a, true
		}
	}
	return "", false
}

// KeyHelp describes the answer keys for space.
func KeyHelp(space staircase.AnswerSpace) string {
	switch space.Name() {
	case staircase.SpaceDirections:
		return "arrows/hjkl answer · ? can't tell"
	case staircase.SpaceLegibility:
		return "y readable · n can't read"
	}
	return "letter keys answer · ? can't tell"
}
