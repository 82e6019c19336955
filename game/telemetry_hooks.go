package game

import (
	"slices"

	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/registry"
	"github.com/pthm-cable/lightlag/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry(now uint64) {
	if !g.collector.ShouldFlush(now) {
		return
	}

	stats := g.collector.Flush(now, g.population())
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			g.log.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTurn); err != nil {
			g.log.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			g.log.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// Snapshot captures every non-ghost entity at the current turn.
func (g *Game) Snapshot(bm *telemetry.Bookmark) *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RunID:      g.runID,
		Lightspeed: g.cfg.Simulation.Lightspeed,
		Turn:       g.Turn(),
		Ghosts:     registry.Count[components.Ghost](g.reg),
		Bookmark:   bm,
	}

	query := g.renderFilter.Query()
	for query.Next() {
		e := query.Entity()
		pos, _ := query.Get()
		st := telemetry.EntityState{
			ID:         e.ID(),
			X:          pos.X,
			Y:          pos.Y,
			Detectable: registry.Has[components.Detectable](g.reg, e),
			Player:     registry.Has[components.Player](g.reg, e),
		}
		if v := registry.Get[components.Velocity](g.reg, e); v != nil {
			st.VelX, st.VelY = v.X, v.Y
		}
		if s := registry.Get[components.Sensor](g.reg, e); s != nil {
			st.SensorRange = s.MaxRange
		}
		if l := registry.Get[components.SensorLog](g.reg, e); l != nil {
			st.Logged = len(l.Detections)
		}
		snap.Entities = append(snap.Entities, st)
	}
	return snap
}

func (g *Game) saveSnapshot(bm *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.Snapshot(bm), g.snapshotDir)
	if err != nil {
		g.log.Error("failed to save snapshot", "error", err)
		return
	}
	g.log.Info("snapshot saved", "path", path, "turn", g.Turn())
}

// population counts entities by role.
func (g *Game) population() telemetry.Population {
	return telemetry.Population{
		Entities:    registry.Count[components.Position](g.reg),
		Detectables: registry.Count[components.Detectable](g.reg),
		Sensors:     registry.Count[components.Sensor](g.reg),
		Ghosts:      registry.Count[components.Ghost](g.reg),
	}
}

// writeDetections appends this turn's log entries of every logging sensor
// to detections.csv.
func (g *Game) writeDetections(now uint64) {
	if !g.outputManager.LogsDetections() {
		return
	}

	g.records = g.records[:0]
	query := g.logFilter.Query()
	for query.Next() {
		id := query.Entity().ID()
		_, log := query.Get()
		first := len(g.records)
		log.Current(now, func(d components.DetectionInfo) {
			g.records = append(g.records, telemetry.DetectionRecord{
				Turn:   d.Turn,
				Sensor: id,
				X:      d.Position.X,
				Y:      d.Position.Y,
			})
		})
		// Current yields newest first; the file keeps log order.
		slices.Reverse(g.records[first:])
	}

	if err := g.outputManager.WriteDetections(g.records); err != nil {
		g.log.Error("failed to write detections", "turn", now, "error", err)
	}
}
