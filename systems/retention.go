package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/registry"
)

// Retention policy names accepted by NewRetention.
const (
	RetentionKeepAll = "keep_all"
	RetentionHorizon = "horizon"
)

// Retention decides which ghost records may be dropped after a turn.
// Ghost records grow by one per detectable entity per turn; the default
// policy keeps every one of them.
type Retention interface {
	Name() string
	// Prune removes ghosts and returns how many were removed.
	Prune(r *registry.Registry, now uint64) int
}

// NewRetention returns the policy registered under name.
func NewRetention(name string, w *ecs.World, lightspeed uint32) (Retention, error) {
	switch name {
	case "", RetentionKeepAll:
		return KeepAll{}, nil
	case RetentionHorizon:
		return NewHorizonRetention(w, lightspeed), nil
	}
	return nil, fmt.Errorf("unknown ghost retention policy %q", name)
}

// KeepAll never removes a ghost.
type KeepAll struct{}

// Name implements Retention.
func (KeepAll) Name() string { return RetentionKeepAll }

// Prune implements Retention.
func (KeepAll) Prune(*registry.Registry, uint64) int { return 0 }

// HorizonRetention removes ghosts older than the largest horizon of any live
// sensor, since no sensor that exists now can still observe them. A sensor
// spawned later with a longer range would have seen some of them, and misses
// them only because this policy deleted them. The policy is therefore opt-in.
type HorizonRetention struct {
	sensors    ecs.Filter1[components.Sensor]
	ghosts     ecs.Filter1[components.Ghost]
	lightspeed uint32
}

// NewHorizonRetention creates a horizon policy.
func NewHorizonRetention(w *ecs.World, lightspeed uint32) *HorizonRetention {
	return &HorizonRetention{
		sensors:    *ecs.NewFilter1[components.Sensor](w),
		ghosts:     *ecs.NewFilter1[components.Ghost](w),
		lightspeed: lightspeed,
	}
}

// Name implements Retention.
func (h *HorizonRetention) Name() string { return RetentionHorizon }

// Prune implements Retention. With no live sensors nothing is removed.
func (h *HorizonRetention) Prune(r *registry.Registry, now uint64) int {
	var maxRange uint32
	haveSensor := false
	sq := h.sensors.Query()
	for sq.Next() {
		s := sq.Get()
		haveSensor = true
		maxRange = max(maxRange, s.MaxRange)
	}
	if !haveSensor {
		return 0
	}

	horizon := Horizon(maxRange, h.lightspeed)
	cmds := r.Commands()
	n := 0
	gq := h.ghosts.Query()
	for gq.Next() {
		g := gq.Get()
		if Age(now, g.Turn) > horizon {
			cmds.Despawn(gq.Entity())
			n++
		}
	}
	r.Sync()
	return n
}
