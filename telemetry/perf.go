package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one simulated turn, in execution order.
// They match the system IDs of the systems package.
const (
	PhaseEmission  = "emission"
	PhaseSync      = "sync"
	PhaseMovement  = "movement"
	PhaseDetection = "detection"
	PhaseRetention = "retention"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in execution order.
var Phases = []string{
	PhaseEmission, PhaseSync, PhaseMovement,
	PhaseDetection, PhaseRetention, PhaseTelemetry,
}

// PerfSample holds timing data for a single turn.
type PerfSample struct {
	TurnDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector times the phases of each turn and keeps the last window of
// samples in a ring. It also tracks the frame interval of interactive modes.
type PerfCollector struct {
	samples     []PerfSample
	next        int
	sampleCount int
	last        PerfSample

	turn       PerfSample
	turnStart  time.Time
	phase      string
	phaseStart time.Time

	lastFrameAt   time.Time
	frameInterval time.Duration
}

// NewPerfCollector keeps windowSize turns (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PerfSample, windowSize)}
}

// StartTurn opens a new turn sample.
func (p *PerfCollector) StartTurn() {
	p.turnStart = time.Now()
	p.turn = PerfSample{Phases: make(map[string]time.Duration, len(Phases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	p.closePhase(time.Now())
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.turn.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
}

// EndTurn closes the turn, stores it in the window and returns its duration.
func (p *PerfCollector) EndTurn() time.Duration {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""
	p.turn.TurnDuration = now.Sub(p.turnStart)

	p.samples[p.next] = p.turn
	p.next = (p.next + 1) % len(p.samples)
	p.sampleCount = min(p.sampleCount+1, len(p.samples))
	p.last = p.turn
	return p.turn.TurnDuration
}

// Last returns the most recent turn sample.
func (p *PerfCollector) Last() PerfSample {
	return p.last
}

// RecordFrame marks a presented frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameAt.IsZero() {
		p.frameInterval = now.Sub(p.lastFrameAt)
	}
	p.lastFrameAt = now
}

// FPS returns the frame rate implied by the last frame interval, or 0 before
// two frames were recorded.
func (p *PerfCollector) FPS() float64 {
	if p.frameInterval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(p.frameInterval)
}

// PerfStats summarises the turns in the current window.
type PerfStats struct {
	AvgTurnDuration time.Duration
	MinTurnDuration time.Duration
	MaxTurnDuration time.Duration

	// Share of the average turn spent in each phase, in percent.
	PhasePct map[string]float64

	FPS float64
}

// Stats aggregates the samples in the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhasePct: make(map[string]float64),
		FPS:      p.FPS(),
	}
	if p.sampleCount == 0 {
		return s
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i, sample := range p.samples[:p.sampleCount] {
		total += sample.TurnDuration
		if i == 0 || sample.TurnDuration < s.MinTurnDuration {
			s.MinTurnDuration = sample.TurnDuration
		}
		s.MaxTurnDuration = max(s.MaxTurnDuration, sample.TurnDuration)
		for phase, d := range sample.Phases {
			phaseSum[phase] += d
		}
	}

	s.AvgTurnDuration = total / time.Duration(p.sampleCount)
	if total > 0 {
		for phase, sum := range phaseSum {
			s.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	return s
}

// Slowest returns the phase in order with the largest share of turn time.
// Ties keep the earlier phase; an empty window returns "".
func (s PerfStats) Slowest(order []string) (phase string, pct float64) {
	for _, id := range order {
		if v := s.PhasePct[id]; v > pct {
			phase, pct = id, v
		}
	}
	return phase, pct
}

// LogStats logs the window's turn cost and the phases above 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_turn_us", s.AvgTurnDuration.Microseconds(),
		"min_turn_us", s.MinTurnDuration.Microseconds(),
		"max_turn_us", s.MaxTurnDuration.Microseconds(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgTurnUS    int64   `csv:"avg_turn_us"`
	MinTurnUS    int64   `csv:"min_turn_us"`
	MaxTurnUS    int64   `csv:"max_turn_us"`
	FPS          float64 `csv:"fps"`
	EmissionPct  float64 `csv:"emission_pct"`
	SyncPct      float64 `csv:"sync_pct"`
	MovementPct  float64 `csv:"movement_pct"`
	DetectionPct float64 `csv:"detection_pct"`
	RetentionPct float64 `csv:"retention_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTurnUS:    s.AvgTurnDuration.Microseconds(),
		MinTurnUS:    s.MinTurnDuration.Microseconds(),
		MaxTurnUS:    s.MaxTurnDuration.Microseconds(),
		FPS:          s.FPS,
		EmissionPct:  s.PhasePct[PhaseEmission],
		SyncPct:      s.PhasePct[PhaseSync],
		MovementPct:  s.PhasePct[PhaseMovement],
		DetectionPct: s.PhasePct[PhaseDetection],
		RetentionPct: s.PhasePct[PhaseRetention],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
