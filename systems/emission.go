package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/registry"
)

// EmissionSystem leaves a ghost behind every detectable entity each turn.
// Ghosts are spawned through the registry's command queue and appear only
// after the next Sync.
type EmissionSystem struct {
	filter ecs.Filter2[components.Position, components.Detectable]
	ghosts *ecs.Map2[components.Position, components.Ghost]
}

// NewEmissionSystem creates a new emission system.
func NewEmissionSystem(w *ecs.World) *EmissionSystem {
	return &EmissionSystem{
		filter: *ecs.NewFilter2[components.Position, components.Detectable](w),
		ghosts: ecs.NewMap2[components.Position, components.Ghost](w),
	}
}

// Update queues one ghost per detectable entity stamped with turn now and
// returns how many were queued.
func (s *EmissionSystem) Update(now uint64, cmds *registry.Commands) int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		p := *pos
		g := components.Ghost{Emitter: query.Entity(), Turn: now}
		cmds.Push(func(*registry.Registry) {
			s.ghosts.NewEntity(&p, &g)
		})
		n++
	}
	return n
}
