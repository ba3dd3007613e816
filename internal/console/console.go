// Package console runs a test over plain line-oriented input and output.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/acuity/internal/optotype"
	"github.com/abhisek/acuity/internal/staircase"
)

// Drawing area for the optotype.
const (
	DefaultWidth  = 60
	DefaultHeight = 20
)

// Presenter prints each stimulus and reads one answer per line. It
// implements staircase.Presenter.
type Presenter struct {
	in    *bufio.Scanner
	out   io.Writer
	space staircase.AnswerSpace

	Width, Height int
}

// New returns a Presenter reading from in and writing to out.
func New(in io.Reader, out io.Writer, space staircase.AnswerSpace) *Presenter {
	return &Presenter{
		in:     bufio.NewScanner(in),
		out:    out,
		space:  space,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Present shows s and blocks until a recognised answer is read. "q" or end
// of input returns staircase.ErrQuit.
func (p *Presenter) Present(ctx context.Context, s staircase.Stimulus, labels []staircase.Answer) (staircase.Answer, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "\nTrial %d · level %s\n\n", s.Number, s.Level.Label)
	if b, ok := optotype.GlyphFor(s.Answer); ok {
		fmt.Fprintln(p.out, optotype.Render(b, s.Magnitude, p.Width, p.Height))
	}
	fmt.Fprintln(p.out)

	for {
		fmt.Fprintf(p.out, "%s (q to stop)> ", joinLabels(labels))
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("read answer: %w", err)
			}
			return "", staircase.ErrQuit
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line := strings.TrimSpace(p.in.Text())
		switch strings.ToLower(line) {
		case "q", "quit", "exit":
			return "", staircase.ErrQuit
		}
		if a, ok := Parse(p.space, labels, line); ok {
			return a, nil
		}
		fmt.Fprintf(p.out, "%q is not an answer.\n", line)
	}
}

// ReadName prompts for the participant's name until a non-blank line is
// read. End of input returns staircase.ErrQuit.
func (p *Presenter) ReadName() (string, error) {
	for {
		fmt.Fprint(p.out, "Name: ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("read name: %w", err)
			}
			return "", staircase.ErrQuit
		}
		if name := strings.TrimSpace(p.in.Text()); name != "" {
			return name, nil
		}
	}
}

var directionAliases = map[string]staircase.Answer{
	"u": staircase.Up,
	"r": staircase.Right,
	"d": staircase.Down,
	"l": staircase.Left,
}

// Parse maps a typed line to one of labels. Labels match case-insensitively;
// "?" is Unknown everywhere, directions also accept their first letter and
// the legibility space accepts y/n.
func Parse(space staircase.AnswerSpace, labels []staircase.Answer, line string) (staircase.Answer, bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return "", false
	}
	if line == "?" {
		return staircase.Unknown, true
	}
	for _, l := range labels {
		if strings.EqualFold(string(l), line) {
			return l, true
		}
	}

	switch space.Name() {
	case staircase.SpaceDirections:
		a, ok := directionAliases[line]
		return a, ok
	case staircase.SpaceLegibility:
		switch line {
		case "y":
			return staircase.Yes, true
		case "n", "no":
			return staircase.Unknown, true
		}
	}
	return "", false
}

func joinLabels(labels []staircase.Answer) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, "/")
}
