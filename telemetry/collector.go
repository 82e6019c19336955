package telemetry

// TurnSample holds the event counts of one simulated turn.
type TurnSample struct {
	Emitted  int
	Pruned   int
	Spawned  int
	Matches  int
	Logged   int
	BySensor []int // matches per sensor, in sensor query order
}

// Population holds entity counts sampled at window end.
type Population struct {
	Entities    int
	Detectables int
	Sensors     int
	Ghosts      int
}

// Collector accumulates turn events within windows and produces WindowStats.
type Collector struct {
	windowTurns uint64

	// Current window tracking
	windowStart uint64
	turns       int

	// Event counters for current window
	emitted  int
	pruned   int
	spawned  int
	matches  int
	logged   int
	bySensor []float64
}

// NewCollector creates a new stats collector.
// windowTurns: how many turns each stats window spans.
func NewCollector(windowTurns int) *Collector {
	if windowTurns < 1 {
		windowTurns = 1
	}
	return &Collector{windowTurns: uint64(windowTurns)}
}

// RecordTurn adds one turn's events to the current window.
func (c *Collector) RecordTurn(s TurnSample) {
	c.turns++
	c.emitted += s.Emitted
	c.pruned += s.Pruned
	c.spawned += s.Spawned
	c.matches += s.Matches
	c.logged += s.Logged

	// Sensors spawned mid-window extend the slice.
	for len(c.bySensor) < len(s.BySensor) {
		c.bySensor = append(c.bySensor, 0)
	}
	for i, n := range s.BySensor {
		c.bySensor[i] += float64(n)
	}
}

// ShouldFlush returns true if enough turns have passed to flush the window.
func (c *Collector) ShouldFlush(currentTurn uint64) bool {
	return currentTurn-c.windowStart >= c.windowTurns
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTurn uint64, pop Population) WindowStats {
	mean, std, p10, p50, p90 := ComputeDistStats(c.bySensor)

	stats := WindowStats{
		WindowStartTurn: c.windowStart,
		WindowEndTurn:   currentTurn,
		Turns:           c.turns,

		Entities:    pop.Entities,
		Detectables: pop.Detectables,
		Sensors:     pop.Sensors,
		Ghosts:      pop.Ghosts,

		GhostsEmitted: c.emitted,
		GhostsPruned:  c.pruned,
		Spawned:       c.spawned,
		Detections:    c.matches,
		Logged:        c.logged,

		SensorDetMean: mean,
		SensorDetStd:  std,
		SensorDetP10:  p10,
		SensorDetP50:  p50,
		SensorDetP90:  p90,
	}

	// Reset for next window
	c.windowStart = currentTurn
	c.turns = 0
	c.emitted = 0
	c.pruned = 0
	c.spawned = 0
	c.matches = 0
	c.logged = 0
	c.bySensor = c.bySensor[:0]

	return stats
}

// WindowTurns returns the number of turns per window.
func (c *Collector) WindowTurns() uint64 {
	return c.windowTurns
}
