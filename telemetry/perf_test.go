package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few turns
	for i := 0; i < 5; i++ {
		pc.StartTurn()
		pc.StartPhase(PhaseMovement)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDetection)
		time.Sleep(200 * time.Microsecond)
		pc.EndTurn()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTurnDuration <= 0 {
		t.Error("expected positive average turn duration")
	}

	if stats.MinTurnDuration > stats.AvgTurnDuration || stats.AvgTurnDuration > stats.MaxTurnDuration {
		t.Errorf("min %v, avg %v, max %v out of order",
			stats.MinTurnDuration, stats.AvgTurnDuration, stats.MaxTurnDuration)
	}

	for _, phase := range []string{PhaseMovement, PhaseDetection} {
		if stats.PhasePct[phase] <= 0 {
			t.Errorf("expected %s phase to be tracked, got %v", phase, stats.PhasePct)
		}
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTurn()
		pc.StartPhase(PhaseMovement)
		time.Sleep(10 * time.Microsecond)
		pc.EndTurn()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTurnDuration <= 0 {
		t.Error("expected positive average turn duration after window filled")
	}

	if got := stats.PhasePct[PhaseMovement]; got < 50 || got > 100.001 {
		t.Errorf("movement share = %v, want most of the turn", got)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTurn()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTurn()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTurnDuration != 0 {
		t.Error("expected zero avg turn duration for empty collector")
	}

	if phase, _ := stats.Slowest(Phases); phase != "" {
		t.Errorf("Slowest on empty window = %q, want none", phase)
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FPS != pc.FPS() {
		t.Errorf("Stats().FPS = %v, FPS() = %v", stats.FPS, pc.FPS())
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// A 16ms sleep caps the rate at 62.5 frames per second.
	if stats.FPS > 62.5 {
		t.Errorf("expected FPS <= 62.5 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_LastAndCSV(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTurn()
	pc.StartPhase(PhaseEmission)
	pc.StartPhase(PhaseDetection)
	time.Sleep(200 * time.Microsecond)
	d := pc.EndTurn()

	if d <= 0 || pc.Last().TurnDuration != d {
		t.Errorf("EndTurn = %v, Last = %v", d, pc.Last().TurnDuration)
	}
	if _, ok := pc.Last().Phases[PhaseEmission]; !ok {
		t.Error("expected emission phase in last sample")
	}

	row := pc.Stats().ToCSV(12)
	if row.WindowEnd != 12 {
		t.Errorf("WindowEnd = %d, want 12", row.WindowEnd)
	}
	if row.DetectionPct <= row.EmissionPct {
		t.Errorf("detection %v%% should dominate emission %v%%", row.DetectionPct, row.EmissionPct)
	}
}

func TestPerfStats_Slowest(t *testing.T) {
	s := PerfStats{PhasePct: map[string]float64{
		PhaseEmission:  10,
		PhaseDetection: 60,
		PhaseTelemetry: 60,
		"unlisted":     90,
	}}

	phase, pct := s.Slowest(Phases)
	if phase != PhaseDetection || pct != 60 {
		t.Errorf("Slowest = (%q, %v), want (%q, 60)", phase, pct, PhaseDetection)
	}
}
