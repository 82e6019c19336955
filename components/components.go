// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Detectable tags an entity that leaves a ghost behind every turn.
type Detectable struct{}

// Sensor tags an entity that perceives ghosts.
type Sensor struct {
	MaxRange uint32
}

// Ghost is a position an emitter occupied at a past turn. The ghost entity
// carries a Position captured at emission and is never mutated afterwards.
type Ghost struct {
	Emitter ecs.Entity // non-owning; only compared for self-exclusion
	Turn    uint64     // turn the position was emitted
}

// DetectionInfo is one perceived ghost.
type DetectionInfo struct {
	Position Position
	Turn     uint64 // turn the light arrived
}

// SensorLog remembers what a sensor perceived, oldest first.
type SensorLog struct {
	Detections []DetectionInfo
}

// Append records a detection. Entries are appended in turn order.
func (l *SensorLog) Append(d DetectionInfo) {
	l.Detections = append(l.Detections, d)
}

// Current calls fn for the trailing run of entries stamped with turn,
// newest first, and stops at the first stale entry.
func (l *SensorLog) Current(turn uint64, fn func(DetectionInfo)) {
	for i := len(l.Detections) - 1; i >= 0; i-- {
		d := l.Detections[i]
		if d.Turn != turn {
			return
		}
		fn(d)
	}
}

// Player marks the entity whose detections are presented.
type Player struct{}
