package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of turns.
type WindowStats struct {
	WindowStartTurn uint64 `csv:"-"`
	WindowEndTurn   uint64 `csv:"window_end"`
	Turns           int    `csv:"turns"`

	// Population at window end
	Entities    int `csv:"entities"`
	Detectables int `csv:"detectables"`
	Sensors     int `csv:"sensors"`
	Ghosts      int `csv:"ghosts"`

	// Events during window
	GhostsEmitted int `csv:"ghosts_emitted"`
	GhostsPruned  int `csv:"ghosts_pruned"`
	Spawned       int `csv:"spawned"`
	Detections    int `csv:"detections"` // light arrivals, logged or not
	Logged        int `csv:"logged"`     // arrivals appended to a sensor log

	// Per-sensor detections during window
	SensorDetMean float64 `csv:"sensor_det_mean"`
	SensorDetStd  float64 `csv:"sensor_det_std"`
	SensorDetP10  float64 `csv:"sensor_det_p10"`
	SensorDetP50  float64 `csv:"sensor_det_p50"`
	SensorDetP90  float64 `csv:"sensor_det_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistStats calculates mean, standard deviation and percentiles.
// The standard deviation is the unbiased sample estimate.
func ComputeDistStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTurn),
		slog.Uint64("window_end", s.WindowEndTurn),
		slog.Int("turns", s.Turns),
		slog.Int("entities", s.Entities),
		slog.Int("detectables", s.Detectables),
		slog.Int("sensors", s.Sensors),
		slog.Int("ghosts", s.Ghosts),
		slog.Int("ghosts_emitted", s.GhostsEmitted),
		slog.Int("ghosts_pruned", s.GhostsPruned),
		slog.Int("spawned", s.Spawned),
		slog.Int("detections", s.Detections),
		slog.Int("logged", s.Logged),
		slog.Float64("sensor_det_mean", s.SensorDetMean),
		slog.Float64("sensor_det_std", s.SensorDetStd),
		slog.Float64("sensor_det_p10", s.SensorDetP10),
		slog.Float64("sensor_det_p50", s.SensorDetP50),
		slog.Float64("sensor_det_p90", s.SensorDetP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTurn,
		"turns", s.Turns,
		"entities", s.Entities,
		"detectables", s.Detectables,
		"sensors", s.Sensors,
		"ghosts", s.Ghosts,
		"ghosts_emitted", s.GhostsEmitted,
		"ghosts_pruned", s.GhostsPruned,
		"spawned", s.Spawned,
		"detections", s.Detections,
		"logged", s.Logged,
		"sensor_det_mean", s.SensorDetMean,
		"sensor_det_p50", s.SensorDetP50,
	)
}
