package optotype

import "strings"

// PixelsPerCell is how many stimulus pixels one terminal row stands for.
// A level whose magnitude is below Size*PixelsPerCell cannot shrink further
// and is drawn with lighter shading instead.
const PixelsPerCell = 4

// Shades from full ink to faintest.
var shades = []struct {
	min float64
	ink string
}{
	{1.0, "█"},
	{0.8, "▓"},
	{0.6, "▒"},
	{0, "░"},
}

// Frame is a rendered glyph.
type Frame struct {
	Lines []string

	// Scale is the number of rows per bitmap cell.
	Scale int

	// Clamped is set when the glyph was shrunk to fit the area.
	Clamped bool

	// Contrast is 1 for glyphs drawn at their true size and less for glyphs
	// below the smallest drawable size.
	Contrast float64
}

// Width returns the frame width in columns.
func (f Frame) Width() int {
	if len(f.Lines) == 0 {
		return 0
	}
	return len([]rune(f.Lines[0]))
}

// Height returns the frame height in rows.
func (f Frame) Height() int { return len(f.Lines) }

func (f Frame) String() string { return strings.Join(f.Lines, "\n") }

// Render draws b at a size derived from magnitude, fitted into maxW by maxH
// cells. Each bitmap cell is two columns wide per row so the glyph looks
// square in a typical terminal font.
func Render(b Bitmap, magnitude float64, maxW, maxH int) Frame {
	minMagnitude := float64(Size * PixelsPerCell)

	want := int(magnitude / minMagnitude)
	if want < 1 {
		want = 1
	}
	fit := min(maxH/Size, maxW/(2*Size))
	if fit < 1 {
		fit = 1
	}

	f := Frame{Scale: want, Contrast: 1}
	if want > fit {
		f.Scale = fit
		f.Clamped = true
	}
	if magnitude < minMagnitude {
		f.Contrast = magnitude / minMagnitude
	}

	ink := shadeFor(f.Contrast)
	on := strings.Repeat(ink, 2*f.Scale)
	off := strings.Repeat(" ", 2*f.Scale)

	for r := 0; r < Size; r++ {
		var line strings.Builder
		for c := 0; c < Size; c++ {
			if b[r][c] {
				line.WriteString(on)
			} else {
				line.WriteString(off)
			}
		}
		for i := 0; i < f.Scale; i++ {
			f.Lines = append(f.Lines, line.String())
		}
	}
	return f
}

func shadeFor(contrast float64) string {
	for _, s := range shades {
		if contrast >= s.min {
			return s.ink
		}
	}
	return shades[len(shades)-1].ink
}
