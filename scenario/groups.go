package scenario

import (
	"fmt"

	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/config"
	"github.com/pthm-cable/lightlag/registry"
)

// group is a resolved config group.
type group struct {
	name  string
	count int
	start components.Position
	step  components.Position
	every int
	tmpl  Template
}

// Groups spawns entities laid out on lines, as described by configuration.
type Groups struct {
	groups []group
}

// NewGroups resolves configured groups. Invalid glyphs or colours are
// reported with the group's index and name.
func NewGroups(cfgs []config.GroupConfig) (*Groups, error) {
	g := &Groups{groups: make([]group, 0, len(cfgs))}
	for i, c := range cfgs {
		rd, err := look(c.Glyph, c.Fg, c.Bg, c.Hidden)
		if err != nil {
			return nil, fmt.Errorf("scenario group %d (%s): %w", i, c.Name, err)
		}
		tmpl := Template{
			Vel:        components.Velocity{X: c.Velocity.X, Y: c.Velocity.Y},
			Detectable: c.Detectable,
			Log:        c.Log,
			Player:     c.Player,
			Look:       rd,
		}
		if c.SensorRange > 0 {
			tmpl.Sensor = &components.Sensor{MaxRange: c.SensorRange}
		}
		g.groups = append(g.groups, group{
			name:  c.Name,
			count: c.Count,
			start: components.Position{X: c.Start.X, Y: c.Start.Y},
			step:  components.Position{X: c.Step.X, Y: c.Step.Y},
			every: c.Every,
			tmpl:  tmpl,
		})
	}
	return g, nil
}

// each calls fn with the template of every entity in gr.
func (gr *group) each(fn func(Template)) {
	pos := gr.start
	for i := 0; i < gr.count; i++ {
		t := gr.tmpl
		t.Pos = pos
		fn(t)
		pos = components.Position{X: pos.X + gr.step.X, Y: pos.Y + gr.step.Y}
	}
}

// Spawn implements Spawner.
func (g *Groups) Spawn(r *registry.Registry) (int, error) {
	n := 0
	for i := range g.groups {
		g.groups[i].each(func(t Template) {
			t.Build(r)
			n++
		})
	}
	return n, nil
}

// Repeat implements Repeater. A group with every = N is queued again on
// every turn divisible by N.
func (g *Groups) Repeat(now uint64, cmds *registry.Commands) (int, error) {
	n := 0
	for i := range g.groups {
		gr := &g.groups[i]
		if gr.every <= 0 || now%uint64(gr.every) != 0 {
			continue
		}
		gr.each(func(t Template) {
			t.Queue(cmds)
			n++
		})
	}
	return n, nil
}
