package screen

import (
	"strings"

	"void-cli/internal/model"
)

// Cell is one character on the grid.
type Cell struct {
	Ch      rune
	Fg      model.Color
	Reverse bool
	Bold    bool
}

// Frame is a W×H grid addressed with 1-based coordinates, like the terminal.
type Frame struct {
	W, H  int
	cells []Cell
}

func NewFrame(w, h int) *Frame {
	f := &Frame{W: max(w, 0), H: max(h, 0)}
	f.cells = make([]Cell, f.W*f.H)
	for i := range f.cells {
		f.cells[i].Ch = ' '
	}
	return f
}

func (f *Frame) index(x, y int) (int, bool) {
	if x < 1 || y < 1 || x > f.W || y > f.H {
		return 0, false
	}
	return (y-1)*f.W + (x - 1), true
}

// Set writes a cell; writes outside the frame are dropped.
func (f *Frame) Set(x, y int, c Cell) {
	if i, ok := f.index(x, y); ok {
		f.cells[i] = c
	}
}

func (f *Frame) Get(x, y int) Cell {
	if i, ok := f.index(x, y); ok {
		return f.cells[i]
	}
	return Cell{Ch: ' '}
}

// Text writes s starting at (x, y) one rune per cell and returns the column after it.
func (f *Frame) Text(x, y int, s string, style Cell) int {
	for _, r := range s {
		style.Ch = r
		f.Set(x, y, style)
		x++
	}
	return x
}

// Row returns the characters of row y without styling.
func (f *Frame) Row(y int) string {
	if y < 1 || y > f.H {
		return ""
	}
	var b strings.Builder
	for x := 1; x <= f.W; x++ {
		b.WriteRune(f.Get(x, y).Ch)
	}
	return b.String()
}

// Lines returns every row as plain text.
func (f *Frame) Lines() []string {
	out := make([]string, f.H)
	for y := 1; y <= f.H; y++ {
		out[y-1] = f.Row(y)
	}
	return out
}

func (f *Frame) String() string { return strings.Join(f.Lines(), "\n") }
