package systems

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lightlag/components"
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b components.Position) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// TravelTurns returns the number of whole turns light needs to cover d.
// The quotient is truncated, never rounded.
func TravelTurns(d float64, lightspeed uint32) uint64 {
	if lightspeed == 0 {
		panic("systems: lightspeed must be positive")
	}
	return uint64(d / float64(lightspeed))
}

// Horizon returns the oldest ghost age a sensor with maxRange can still perceive.
func Horizon(maxRange, lightspeed uint32) uint64 {
	return TravelTurns(float64(maxRange), lightspeed)
}

// Age returns how many turns ago a ghost was emitted.
// A ghost stamped in the future means the turn invariant is broken.
func Age(now, emitted uint64) uint64 {
	if emitted > now {
		panic(fmt.Sprintf("systems: ghost emitted at turn %d is ahead of turn %d", emitted, now))
	}
	return now - emitted
}

// Observe reports whether the sensor entity at sp with maxRange perceives
// ghost g located at gp exactly on turn now.
func Observe(sensor ecs.Entity, sp components.Position, maxRange uint32, g components.Ghost, gp components.Position, now uint64, lightspeed uint32) bool {
	d := Distance(sp, gp)
	if float64(maxRange) < d {
		return false
	}
	travel := TravelTurns(d, lightspeed)
	if travel != Age(now, g.Turn) {
		return false
	}
	// A sensor never sees its own same-turn position.
	if travel == 0 && g.Emitter == sensor {
		return false
	}
	return true
}
