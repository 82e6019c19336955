// Package scenario populates a registry with the initial entities of a run
// and, optionally, with more entities on later turns.
package scenario

import (
	"fmt"
	"unicode/utf8"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/registry"
)

// Spawner places the entities a run starts with.
type Spawner interface {
	Spawn(r *registry.Registry) (int, error)
}

// Repeater is implemented by spawners that add entities on later turns.
// Entities are queued on cmds and appear at the next sync.
type Repeater interface {
	Repeat(now uint64, cmds *registry.Commands) (int, error)
}

// Template describes one entity to spawn.
type Template struct {
	Pos        components.Position
	Vel        components.Velocity
	Detectable bool
	Sensor     *components.Sensor // nil = not a sensor
	Log        bool               // attach a SensorLog; requires Sensor
	Player     bool
	Look       components.Renderable
}

// Build creates the entity described by t.
func (t Template) Build(r *registry.Registry) ecs.Entity {
	e := registry.Spawn2(r, t.Pos, t.Look)
	if t.Vel != (components.Velocity{}) {
		registry.Attach(r, e, t.Vel)
	}
	if t.Detectable {
		registry.Attach(r, e, components.Detectable{})
	}
	if t.Sensor != nil {
		registry.Attach(r, e, *t.Sensor)
		if t.Log {
			registry.Attach(r, e, components.SensorLog{})
		}
	}
	if t.Player {
		registry.Attach(r, e, components.Player{})
	}
	return e
}

// Queue defers Build until the next sync.
func (t Template) Queue(cmds *registry.Commands) {
	cmds.Push(func(r *registry.Registry) { t.Build(r) })
}

// look resolves glyph and colour names into a Renderable. Empty values keep
// the defaults.
func look(glyph, fg, bg string, hidden bool) (components.Renderable, error) {
	rd := components.DefaultRenderable()
	rd.Hidden = hidden
	if glyph != "" {
		g, size := utf8.DecodeRuneInString(glyph)
		if g == utf8.RuneError || size != len(glyph) {
			return rd, fmt.Errorf("glyph %q must be a single character", glyph)
		}
		rd.Glyph = g
	}
	if fg != "" {
		c, err := components.ParseColor(fg)
		if err != nil {
			return rd, fmt.Errorf("fg: %w", err)
		}
		rd.Fg = c
	}
	if bg != "" {
		c, err := components.ParseColor(bg)
		if err != nil {
			return rd, fmt.Errorf("bg: %w", err)
		}
		rd.Bg = c
	}
	return rd, nil
}
