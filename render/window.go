package render

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lightlag/components"
)

// windowPanel is the width in pixels of the button column right of the grid.
const windowPanel = 90

// Window presents frames in a raylib window, one cell per CellSize pixels.
type Window struct {
	cellSize int32
	gridW    int32
}

// NewWindow opens a window sized for a cols by rows grid.
func NewWindow(cols, rows, cellSize, targetFPS int) *Window {
	if cellSize <= 0 {
		cellSize = 8
	}
	w := &Window{cellSize: int32(cellSize), gridW: int32(cols * cellSize)}
	rl.InitWindow(w.gridW+windowPanel, int32(rows*cellSize), "lightlag")
	if targetFPS > 0 {
		rl.SetTargetFPS(int32(targetFPS))
	}
	return w
}

// Present implements Backend.
func (w *Window) Present(f *Frame) []Action {
	if rl.WindowShouldClose() {
		return []Action{ActionQuit}
	}

	var out []Action
	for key, a := range windowKeys {
		if rl.IsKeyPressed(key) || rl.IsKeyPressedRepeat(key) {
			out = append(out, a)
		}
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	cs := w.cellSize
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.Cells[y*f.Width+x]
			px, py := int32(x)*cs, int32(y)*cs
			if c.Bg != components.Black {
				rl.DrawRectangle(px, py, cs, cs, rlColor(c.Bg))
			}
			if c.Glyph != ' ' {
				rl.DrawText(string(asciiGlyph(c.Glyph)), px, py, cs, rlColor(c.Fg))
			}
		}
	}

	px := float32(w.gridW + 10)
	if gui.Button(rl.Rectangle{X: px, Y: 10, Width: windowPanel - 20, Height: 24}, "Pause") {
		out = append(out, ActionTogglePause)
	}
	if gui.Button(rl.Rectangle{X: px, Y: 40, Width: windowPanel - 20, Height: 24}, "Step") {
		out = append(out, ActionStep)
	}

	rl.EndDrawing()
	return out
}

// Close implements Backend.
func (w *Window) Close() {
	rl.CloseWindow()
}

var windowKeys = map[int32]Action{
	rl.KeyA:      ActionPanLeft,
	rl.KeyD:      ActionPanRight,
	rl.KeyW:      ActionPanUp,
	rl.KeyS:      ActionPanDown,
	rl.KeyLeft:   ActionPanLeft,
	rl.KeyRight:  ActionPanRight,
	rl.KeyUp:     ActionPanUp,
	rl.KeyDown:   ActionPanDown,
	rl.KeySpace:  ActionTogglePause,
	rl.KeyPeriod: ActionStep,
	rl.KeyQ:      ActionQuit,
}

// asciiGlyph maps box-drawing runes onto ASCII; the default raylib font has
// no glyphs above 0x7f.
func asciiGlyph(r rune) rune {
	switch r {
	case '═':
		return '='
	case '║':
		return '|'
	case '╔', '╗', '╚', '╝':
		return '+'
	}
	if r > 0x7f {
		return '?'
	}
	return r
}

func rlColor(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
