package staircase

import "fmt"

// Level is one step of the difficulty ladder. Rank 1 is the easiest level.
type Level struct {
	Rank      int
	Magnitude float64 // stimulus size in pixels
	Label     string  // decimal acuity, e.g. "1.0"
}

// IsBelowMinimum reports whether l is the sentinel returned when no level was reached.
func (l Level) IsBelowMinimum() bool {
	return l.Rank == 0
}

// Ladder is the immutable, ordered set of levels a test moves through.
type Ladder struct {
	levels  []Level
	byLabel map[string]int
}

// NewLadder builds a ladder from levels ordered easiest to hardest. Ranks are
// assigned 1..N in order; any Rank set on the inputs is ignored. Magnitudes
// must be positive and strictly decreasing.
func NewLadder(levels []Level) (*Ladder, error) {
	if len(levels) == 0 {
		return nil, &ValidationError{Field: "levels", Reason: "ladder needs at least one level"}
	}

	l := &Ladder{
		levels:  make([]Level, len(levels)),
		byLabel: make(map[string]int, len(levels)),
	}
	for i, lv := range levels {
		if lv.Label == "" {
			return nil, &ValidationError{Field: "levels", Reason: fmt.Sprintf("level %d has no label", i+1)}
		}
		if lv.Magnitude <= 0 {
			return nil, &ValidationError{Field: "levels", Reason: fmt.Sprintf("level %q has non-positive magnitude %g", lv.Label, lv.Magnitude)}
		}
		if i > 0 && lv.Magnitude >= levels[i-1].Magnitude {
			return nil, &ValidationError{
				Field:  "levels",
				Reason: fmt.Sprintf("magnitude must decrease with rank: %q (%g) follows %q (%g)", lv.Label, lv.Magnitude, levels[i-1].Label, levels[i-1].Magnitude),
			}
		}
		if _, dup := l.byLabel[lv.Label]; dup {
			return nil, &ValidationError{Field: "levels", Reason: fmt.Sprintf("duplicate label %q", lv.Label)}
		}
		lv.Rank = i + 1
		l.levels[i] = lv
		l.byLabel[lv.Label] = i
	}
	return l, nil
}

// MustLadder is NewLadder for static tables; it panics on invalid input.
func MustLadder(levels []Level) *Ladder {
	l, err := NewLadder(levels)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of levels (N).
func (l *Ladder) Len() int { return len(l.levels) }

// Level returns the level at rank, 1-based.
func (l *Ladder) Level(rank int) (Level, bool) {
	if rank < 1 || rank > len(l.levels) {
		return Level{}, false
	}
	return l.levels[rank-1], true
}

// ByLabel looks a level up by its display label.
func (l *Ladder) ByLabel(label string) (Level, bool) {
	i, ok := l.byLabel[label]
	if !ok {
		return Level{}, false
	}
	return l.levels[i], true
}

// Bottom returns the easiest level.
func (l *Ladder) Bottom() Level { return l.levels[0] }

// Top returns the hardest level.
func (l *Ladder) Top() Level { return l.levels[len(l.levels)-1] }

// BelowMinimum returns the sentinel level reported when nothing was reached.
func (l *Ladder) BelowMinimum() Level {
	return Level{Rank: 0, Label: "<" + l.levels[0].Label}
}

// Levels returns a copy of all levels, easiest first.
func (l *Ladder) Levels() []Level {
	out := make([]Level, len(l.levels))
	copy(out, l.levels)
	return out
}

// clamp returns the level at rank, pinned to [1, N].
func (l *Ladder) clamp(rank int) Level {
	switch {
	case rank < 1:
		return l.levels[0]
	case rank > len(l.levels):
		return l.levels[len(l.levels)-1]
	}
	return l.levels[rank-1]
}

// DefaultLadder returns the 19-step decimal acuity chart. Magnitudes are the
// optotype height in pixels at the calibrated viewing distance, where 1.0
// renders at 20px.
func DefaultLadder() *Ladder {
	return MustLadder([]Level{
		{Label: "0.03", Magnitude: 667},
		{Label: "0.05", Magnitude: 400},
		{Label: "0.07", Magnitude: 286},
		{Label: "0.1", Magnitude: 200},
		{Label: "0.125", Magnitude: 160},
		{Label: "0.15", Magnitude: 133},
		{Label: "0.2", Magnitude: 100},
		{Label: "0.25", Magnitude: 80},
		{Label: "0.3", Magnitude: 67},
		{Label: "0.4", Magnitude: 50},
		{Label: "0.5", Magnitude: 40},
		{Label: "0.6", Magnitude: 33},
		{Label: "0.7", Magnitude: 29},
		{Label: "0.8", Magnitude: 25},
		{Label: "0.9", Magnitude: 22},
		{Label: "1.0", Magnitude: 20},
		{Label: "1.2", Magnitude: 17},
		{Label: "1.5", Magnitude: 13},
		{Label: "2.0", Magnitude: 10},
	})
}
