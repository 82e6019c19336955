// Package render turns the simulation state into a character grid and hands
// it to a presentation backend. Nothing here is read back by the simulation.
package render

import (
	"github.com/pthm-cable/lightlag/components"
)

// Cell is one character of a frame.
type Cell struct {
	Glyph  rune
	Fg, Bg components.Color
}

// blank is an empty black cell.
var blank = Cell{Glyph: ' ', Fg: components.White, Bg: components.Black}

// Frame is a row-major grid of cells.
type Frame struct {
	Width, Height int
	Cells         []Cell
}

// NewFrame allocates a cleared frame.
func NewFrame(width, height int) *Frame {
	f := &Frame{Width: width, Height: height, Cells: make([]Cell, width*height)}
	f.Clear()
	return f
}

// Clear resets every cell to blank.
func (f *Frame) Clear() {
	for i := range f.Cells {
		f.Cells[i] = blank
	}
}

// Set writes c at (x, y). Out-of-bounds writes are dropped.
func (f *Frame) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Cells[y*f.Width+x] = c
}

// At returns the cell at (x, y), or a blank cell when out of bounds.
func (f *Frame) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return blank
	}
	return f.Cells[y*f.Width+x]
}

// Text writes s starting at (x, y), clipped at the right edge.
func (f *Frame) Text(x, y int, s string, fg components.Color) {
	for _, r := range s {
		f.Set(x, y, Cell{Glyph: r, Fg: fg, Bg: components.Black})
		x++
	}
}

// Row returns row y as a string.
func (f *Frame) Row(y int) string {
	if y < 0 || y >= f.Height {
		return ""
	}
	runes := make([]rune, f.Width)
	for x := range runes {
		runes[x] = f.Cells[y*f.Width+x].Glyph
	}
	return string(runes)
}

// DoubleBox draws a double-line box with its top-left corner at (x, y) and
// outer size w by h.
func (f *Frame) DoubleBox(x, y, w, h int, fg components.Color) {
	if w < 2 || h < 2 {
		return
	}
	put := func(px, py int, r rune) {
		f.Set(px, py, Cell{Glyph: r, Fg: fg, Bg: components.Black})
	}
	for i := x + 1; i < x+w-1; i++ {
		put(i, y, '═')
		put(i, y+h-1, '═')
	}
	for j := y + 1; j < y+h-1; j++ {
		put(x, j, '║')
		put(x+w-1, j, '║')
	}
	put(x, y, '╔')
	put(x+w-1, y, '╗')
	put(x, y+h-1, '╚')
	put(x+w-1, y+h-1, '╝')
}
