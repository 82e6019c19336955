package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus series exported by a run.
type Metrics struct {
	gatherer prometheus.Gatherer

	Turn          prometheus.Gauge
	Ghosts        prometheus.Gauge
	Sensors       prometheus.Gauge
	GhostsEmitted prometheus.Counter
	Detections    prometheus.Counter
	TurnDuration  prometheus.Histogram
	PhaseDuration *prometheus.HistogramVec
}

// NewMetrics registers simulation metrics against reg, defaulting to the
// global Prometheus registry when nil. Registering twice on the same
// registry returns the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{gatherer: gatherer}
	var err error

	if m.Turn, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lightlag_turn",
		Help: "Current simulation turn.",
	})); err != nil {
		return nil, err
	}
	if m.Ghosts, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lightlag_ghosts",
		Help: "Ghost records currently stored.",
	})); err != nil {
		return nil, err
	}
	if m.Sensors, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lightlag_sensors",
		Help: "Live sensors.",
	})); err != nil {
		return nil, err
	}
	if m.GhostsEmitted, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lightlag_ghosts_emitted_total",
		Help: "Ghost records emitted since start.",
	})); err != nil {
		return nil, err
	}
	if m.Detections, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lightlag_detections_total",
		Help: "Light arrivals perceived by sensors since start.",
	})); err != nil {
		return nil, err
	}
	if m.TurnDuration, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lightlag_turn_duration_seconds",
		Help:    "Compute time of one simulated turn.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})); err != nil {
		return nil, err
	}
	if m.PhaseDuration, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lightlag_phase_duration_seconds",
		Help:    "Compute time of each turn phase.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"phase"})); err != nil {
		return nil, err
	}

	return m, nil
}

// ObserveTurn records the outcome of one turn. Safe on a nil receiver.
func (m *Metrics) ObserveTurn(turn uint64, pop Population, s TurnSample, perf PerfSample) {
	if m == nil {
		return
	}
	m.Turn.Set(float64(turn))
	m.Ghosts.Set(float64(pop.Ghosts))
	m.Sensors.Set(float64(pop.Sensors))
	m.GhostsEmitted.Add(float64(s.Emitted))
	m.Detections.Add(float64(s.Matches))
	m.TurnDuration.Observe(perf.TurnDuration.Seconds())
	for phase, d := range perf.Phases {
		m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("registering gauge: %w", err)
	}
	return g, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("registering counter: %w", err)
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("registering histogram: %w", err)
	}
	return h, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("registering histogram vec: %w", err)
	}
	return vec, nil
}
