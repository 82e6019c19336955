package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/clock"
	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/registry"
)

const testLightspeed = 10

// harness wires the core systems in turn order.
type harness struct {
	reg      *registry.Registry
	clk      *clock.Clock
	emission *EmissionSystem
	movement *MovementSystem
	detect   *DetectionSystem
}

func newHarness(t *testing.T, threshold int) *harness {
	t.Helper()
	reg := registry.New()
	h := &harness{
		reg:      reg,
		clk:      clock.New(),
		emission: NewEmissionSystem(reg.World()),
		movement: NewMovementSystem(reg.World()),
		detect:   NewDetectionSystem(reg.World(), testLightspeed, 4, threshold),
	}
	t.Cleanup(h.detect.Close)
	return h
}

// step simulates one full turn and returns the detection result.
func (h *harness) step() DetectionResult {
	now := h.clk.Advance()
	h.emission.Update(now, h.reg.Commands())
	h.reg.Sync()
	h.movement.Update()
	return h.detect.Update(now)
}

// sensor spawns a logging sensor.
func (h *harness) sensor(pos components.Position, maxRange uint32) ecs.Entity {
	e := registry.Spawn2(h.reg, pos, components.Sensor{MaxRange: maxRange})
	registry.Attach(h.reg, e, components.SensorLog{})
	return e
}

// emitter spawns a detectable entity.
func (h *harness) emitter(pos components.Position, vel components.Velocity) ecs.Entity {
	e := registry.Spawn2(h.reg, pos, components.Detectable{})
	if vel != (components.Velocity{}) {
		registry.Attach(h.reg, e, vel)
	}
	return e
}

// ghost spawns a ghost record directly.
func (h *harness) ghost(pos components.Position, emitter ecs.Entity, turn uint64) {
	registry.Spawn2(h.reg, pos, components.Ghost{Emitter: emitter, Turn: turn})
}

func (h *harness) log(e ecs.Entity) []components.DetectionInfo {
	return registry.Get[components.SensorLog](h.reg, e).Detections
}

// turnsSeen returns every turn at which pos appears in the log.
func turnsSeen(log []components.DetectionInfo, pos components.Position) []uint64 {
	var turns []uint64
	for _, d := range log {
		if d.Position == pos {
			turns = append(turns, d.Turn)
		}
	}
	return turns
}
