package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/acuity/internal/staircase"
)

// PrintResult writes a short summary of r.
func PrintResult(w io.Writer, r *staircase.ResultRecord) {
	fmt.Fprintf(w, "\n%s: achieved level %s (%s)\n", r.Participant, r.Final.Label, describeBasis(r.Basis))
	fmt.Fprintf(w, "%d of %d trials correct, ended: %s\n", r.Correct(), len(r.History), describeReason(r))

	if len(r.Cleared) > 0 {
		labels := make([]string, len(r.Cleared))
		for i, l := range r.Cleared {
			labels[i] = l.Label
		}
		fmt.Fprintf(w, "cleared: %s\n", strings.Join(labels, ", "))
	}
}

func describeBasis(b staircase.Basis) string {
	switch b {
	case staircase.BasisCleared:
		return "highest cleared level"
	case staircase.BasisReached:
		return "highest level answered correctly, none cleared"
	}
	return "below the chart"
}

func describeReason(r *staircase.ResultRecord) string {
	if r.EndedByFailure {
		return "mistake limit"
	}
	return "stopped"
}
