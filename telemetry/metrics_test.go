package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveTurn(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	perf := PerfSample{
		TurnDuration: 2 * time.Millisecond,
		Phases:       map[string]time.Duration{PhaseDetection: time.Millisecond},
	}
	m.ObserveTurn(1, Population{Ghosts: 100, Sensors: 1}, TurnSample{Emitted: 100, Matches: 3}, perf)
	m.ObserveTurn(2, Population{Ghosts: 200, Sensors: 1}, TurnSample{Emitted: 100, Matches: 4}, perf)

	if got := testutil.ToFloat64(m.Turn); got != 2 {
		t.Errorf("lightlag_turn = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Ghosts); got != 200 {
		t.Errorf("lightlag_ghosts = %v, want 200", got)
	}
	if got := testutil.ToFloat64(m.GhostsEmitted); got != 200 {
		t.Errorf("lightlag_ghosts_emitted_total = %v, want 200", got)
	}
	if got := testutil.ToFloat64(m.Detections); got != 7 {
		t.Errorf("lightlag_detections_total = %v, want 7", got)
	}
	if n := testutil.CollectAndCount(m.PhaseDuration); n != 1 {
		t.Errorf("phase series = %d, want 1", n)
	}
}

func TestMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("second NewMetrics: %v", err)
	}
	a.Detections.Add(2)
	if got := testutil.ToFloat64(b.Detections); got != 2 {
		t.Errorf("second handle sees %v, want shared counter at 2", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTurn(1, Population{}, TurnSample{}, PerfSample{})
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m.Turn.Set(42)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "lightlag_turn 42") {
		t.Errorf("metrics output missing turn gauge:\n%s", body)
	}
}
