// Package systems contains the per-turn ECS systems of the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
)

// MovementSystem applies each entity's velocity to its position once per turn.
type MovementSystem struct {
	filter ecs.Filter2[components.Position, components.Velocity]
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{
		filter: *ecs.NewFilter2[components.Position, components.Velocity](w),
	}
}

// Update moves every entity holding both Position and Velocity and returns
// how many moved. Entities are independent, so order does not matter.
func (s *MovementSystem) Update() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		*pos = pos.Add(*vel)
		n++
	}
	return n
}
