package components

import (
	"strings"
	"testing"
)

func TestTallyView(t *testing.T) {
	tests := []struct {
		name        string
		tally       Tally
		wantDots    int
		wantCrosses int
		wantHollow  int
	}{
		{"empty", NewTally(0, 3, 0, 2), 0, 0, 5},
		{"partial", NewTally(2, 3, 1, 2), 2, 1, 2},
		{"clamped", NewTally(5, 3, 4, 2), 3, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tally.View()
			if n := strings.Count(got, "●"); n != tt.wantDots {
				t.Errorf("correct marks = %d, want %d", n, tt.wantDots)
			}
			if n := strings.Count(got, "✗"); n != tt.wantCrosses {
				t.Errorf("mistake marks = %d, want %d", n, tt.wantCrosses)
			}
			if n := strings.Count(got, "○"); n != tt.wantHollow {
				t.Errorf("open slots = %d, want %d", n, tt.wantHollow)
			}
		})
	}
}
