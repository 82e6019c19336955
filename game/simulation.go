package game

import (
	"time"

	"github.com/pthm-cable/lightlag/telemetry"
)

// TurnResult summarises one simulated turn.
type TurnResult struct {
	Turn     uint64
	Emitted  int
	Spawned  int
	Moved    int
	Matches  int
	Logged   int
	Pruned   int
	Duration time.Duration
}

// Step simulates exactly one turn, ignoring the wall clock and pause state.
func (g *Game) Step() TurnResult {
	pc := g.perfCollector
	pc.StartTurn()

	now := g.clock.Advance()
	res := TurnResult{Turn: now}
	cmds := g.reg.Commands()

	pc.StartPhase(telemetry.PhaseEmission)
	res.Emitted = g.emission.Update(now, cmds)
	if g.repeater != nil {
		n, err := g.repeater.Repeat(now, cmds)
		if err != nil {
			g.log.Error("scenario spawn failed", "turn", now, "error", err)
		}
		res.Spawned = n
	}

	pc.StartPhase(telemetry.PhaseSync)
	g.reg.Sync()

	pc.StartPhase(telemetry.PhaseMovement)
	res.Moved = g.movement.Update()

	pc.StartPhase(telemetry.PhaseDetection)
	det := g.detection.Update(now)
	res.Matches, res.Logged = det.Matches, det.Logged

	pc.StartPhase(telemetry.PhaseRetention)
	res.Pruned = g.retention.Prune(g.reg, now)

	pc.StartPhase(telemetry.PhaseTelemetry)
	g.bySensor = g.detection.MatchCounts(g.bySensor[:0])
	sample := telemetry.TurnSample{
		Emitted:  res.Emitted,
		Pruned:   res.Pruned,
		Spawned:  res.Spawned,
		Matches:  res.Matches,
		Logged:   res.Logged,
		BySensor: g.bySensor,
	}
	g.collector.RecordTurn(sample)
	g.writeDetections(now)

	res.Duration = pc.EndTurn()
	g.turnCompute = res.Duration

	if g.metrics != nil {
		g.metrics.ObserveTurn(now, g.population(), sample, pc.Last())
	}
	g.flushTelemetry(now)

	return res
}

// Update advances the simulation if the turn interval has elapsed since the
// last turn, or if a single step was requested while paused. It returns
// whether a turn ran.
func (g *Game) Update(now time.Time) bool {
	switch {
	case g.stepPending:
		g.stepPending = false
	case g.paused:
		return false
	case !g.lastTurnAt.IsZero() && now.Sub(g.lastTurnAt) < g.cfg.Derived.TurnInterval:
		return false
	}
	g.lastTurnAt = now
	g.Step()
	return true
}

// UpdateHeadless simulates one turn without wall-clock gating.
func (g *Game) UpdateHeadless() TurnResult {
	return g.Step()
}
