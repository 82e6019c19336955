package game

import "github.com/pthm-cable/lightlag/render"

// Apply handles user actions and reports whether the user asked to quit.
func (g *Game) Apply(actions []render.Action) (quit bool) {
	for _, a := range actions {
		switch a {
		case render.ActionPanLeft:
			g.camera.Pan(-1, 0)
		case render.ActionPanRight:
			g.camera.Pan(1, 0)
		case render.ActionPanUp:
			g.camera.Pan(0, -1)
		case render.ActionPanDown:
			g.camera.Pan(0, 1)
		case render.ActionTogglePause:
			g.paused = !g.paused
			g.log.Info("pause toggled", "paused", g.paused, "turn", g.Turn())
		case render.ActionStep:
			// Single steps only make sense while paused.
			if g.paused {
				g.stepPending = true
			}
		case render.ActionQuit:
			quit = true
		}
	}
	return quit
}
