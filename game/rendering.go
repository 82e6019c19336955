package game

import (
	"context"
	"time"

	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/render"
)

// EachRenderable implements render.Scene.
func (g *Game) EachRenderable(fn func(components.Position, components.Renderable)) {
	query := g.renderFilter.Query()
	for query.Next() {
		pos, r := query.Get()
		fn(*pos, *r)
	}
}

// EachPlayerDetection implements render.Scene.
func (g *Game) EachPlayerDetection(fn func(components.DetectionInfo)) {
	now := g.clock.Current()
	query := g.playerFilter.Query()
	for query.Next() {
		_, log := query.Get()
		log.Current(now, fn)
	}
}

// Draw composes the current state into f.
func (g *Game) Draw(f *render.Frame, turned bool) {
	render.Compose(f, g, g.camera, render.Status{
		FPS:         g.perfCollector.FPS(),
		TurnCompute: g.turnCompute,
		Paused:      g.paused,
		Turned:      turned,
	})
}

// Run drives the interactive loop until the user quits or ctx is cancelled.
// frameTime throttles the loop; pass 0 when the backend throttles itself.
func (g *Game) Run(ctx context.Context, b render.Backend, frameTime time.Duration) error {
	f := render.NewFrame(g.cfg.Screen.Width, g.cfg.Screen.Height)

	var tick <-chan time.Time
	if frameTime > 0 {
		ticker := time.NewTicker(frameTime)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		turned := g.Update(time.Now())
		g.perfCollector.RecordFrame()
		g.Draw(f, turned)
		if g.Apply(b.Present(f)) {
			g.log.Info("quit requested", "turn", g.Turn())
			return nil
		}

		if tick == nil {
			if err := ctx.Err(); err != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
	}
}
