package render

import (
	"fmt"
	"time"

	"github.com/pthm-cable/lightlag/camera"
	"github.com/pthm-cable/lightlag/components"
)

// DetectionGlyph marks a perceived ghost.
const DetectionGlyph = 'g'

// Scene is the read-only view of a simulation that a frame is built from.
type Scene interface {
	// Turn returns the current turn.
	Turn() uint64
	// EachRenderable calls fn for every visible entity.
	EachRenderable(fn func(components.Position, components.Renderable))
	// EachPlayerDetection calls fn for every player detection stamped with
	// the current turn, newest first.
	EachPlayerDetection(fn func(components.DetectionInfo))
}

// Status carries the non-simulation numbers shown on the status line.
type Status struct {
	FPS         float64
	TurnCompute time.Duration
	Paused      bool
	Turned      bool // a turn was simulated this frame
}

// Compose draws scene into f: a border around the map view, entities and
// player detections inside it, and two status lines at the bottom.
func Compose(f *Frame, scene Scene, cam *camera.Camera, st Status) {
	f.Clear()
	f.DoubleBox(0, 0, cam.ViewW+2, cam.ViewH+2, components.White)

	// Map cells are offset by the border.
	plot := func(p components.Position, c Cell) {
		sx, sy, ok := cam.WorldToScreen(p)
		if !ok {
			return
		}
		f.Set(sx+1, sy+1, c)
	}

	scene.EachRenderable(func(p components.Position, r components.Renderable) {
		if r.Hidden {
			return
		}
		plot(p, Cell{Glyph: r.Glyph, Fg: r.Fg, Bg: r.Bg})
	})

	scene.EachPlayerDetection(func(d components.DetectionInfo) {
		plot(d.Position, Cell{Glyph: DetectionGlyph, Fg: components.Green, Bg: components.Black})
	})

	switch {
	case st.Paused:
		f.Text(0, f.Height-2, "PAUSED", components.Yellow)
	case st.Turned:
		f.Text(0, f.Height-2, "TURN", components.White)
	}

	tx, ty := cam.Translation()
	f.Text(0, f.Height-1, fmt.Sprintf(
		"view translation: (%d, %d); fps: %d; current turn: %d; turn compute time: %.6f",
		tx, ty, int(st.FPS), scene.Turn(), st.TurnCompute.Seconds(),
	), components.White)
}
