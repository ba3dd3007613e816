// Package optotype draws test glyphs in the terminal and maps keys back to
// answers.
package optotype

import "github.com/abhisek/acuity/internal/staircase"

// Size is the edge length of every bitmap.
const Size = 5

// Bitmap is a square glyph; true cells are ink.
type Bitmap [Size][Size]bool

func parse(rows ...string) Bitmap {
	var b Bitmap
	for r, row := range rows {
		for c, ch := range row {
			b[r][c] = ch == '#'
		}
	}
	return b
}

// rotate turns b a quarter turn clockwise.
func (b Bitmap) rotate() Bitmap {
	var out Bitmap
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			out[r][c] = b[Size-1-c][r]
		}
	}
	return out
}

// tumblingE has its prongs pointing right.
var tumblingE = parse(
	"#####",
	"#....",
	"#####",
	"#....",
	"#####",
)

var sloan = map[staircase.Answer]Bitmap{
	"C": parse(".####", "#....", "#....", "#....", ".####"),
	"D": parse("####.", "#...#", "#...#", "#...#", "####."),
	"H": parse("#...#", "#...#", "#####", "#...#", "#...#"),
	"K": parse("#...#", "#..#.", "###..", "#..#.", "#...#"),
	"N": parse("#...#", "##..#", "#.#.#", "#..##", "#...#"),
	"O": parse(".###.", "#...#", "#...#", "#...#", ".###."),
	"R": parse("####.", "#...#", "####.", "#..#.", "#...#"),
	"S": parse(".####", "#....", ".###.", "....#", "####."),
	"V": parse("#...#", "#...#", "#...#", ".#.#.", "..#.."),
	"Z": parse("#####", "...#.", "..#..", ".#...", "#####"),
}

// Quarter turns clockwise from the right-facing E.
var turns = map[staircase.Answer]int{
	staircase.Right: 0,
	staircase.Down:  1,
	staircase.Left:  2,
	staircase.Up:    3,
}

// GlyphFor returns the bitmap shown when a is the correct answer. The
// legibility answer is shown as a right-facing E. Unknown has no glyph.
func GlyphFor(a staircase.Answer) (Bitmap, bool) {
	if n, ok := turns[a]; ok {
		b := tumblingE
		for i := 0; i < n; i++ {
			b = b.rotate()
		}
		return b, true
	}
	if a == staircase.Yes {
		return tumblingE, true
	}
	b, ok := sloan[a]
	return b, ok
}
