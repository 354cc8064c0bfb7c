// Package metrics exposes Prometheus instrumentation for the fold and cutout
// pipelines. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "foldscreen"

// Metrics holds the collectors registered for one daemon instance.
type Metrics struct {
	FoldTransitions   *prometheus.CounterVec
	SensorIgnored     *prometheus.CounterVec
	HallDebounceWaits prometheus.Counter
	CutoutRectsDrop   prometheus.Counter
	FoldStatus        prometheus.Gauge
	ConfigLoadErrors  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Passing
// prometheus.DefaultRegisterer exposes them through promhttp.Handler.
//
// Metrics:
//   - foldscreen_fold_transitions_total{from,to}
//   - foldscreen_sensor_events_ignored_total{reason}
//   - foldscreen_hall_debounce_waits_total
//   - foldscreen_cutout_rects_dropped_total
//   - foldscreen_fold_status
//   - foldscreen_config_load_errors_total{source}
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FoldTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fold",
				Name:      "transitions_total",
				Help:      "Total number of fold status transitions",
			},
			[]string{"from", "to"},
		),
		SensorIgnored: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sensor",
				Name:      "events_ignored_total",
				Help:      "Total number of sensor events dropped before the state machine",
			},
			[]string{"reason"},
		),
		HallDebounceWaits: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fold",
				Name:      "hall_debounce_waits_total",
				Help:      "Total number of hall reports delayed by the debounce",
			},
		),
		CutoutRectsDrop: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cutout",
				Name:      "rects_dropped_total",
				Help:      "Total number of cutout rects rejected as out of screen",
			},
		),
		FoldStatus: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "fold",
				Name:      "status",
				Help:      "Current fold status (0=unknown, 1=expand, 2=folded, 3=half_fold)",
			},
		),
		ConfigLoadErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "config",
				Name:      "load_errors_total",
				Help:      "Total number of configuration load failures",
			},
			[]string{"source"}, // "xml" or "settings"
		),
	}
}

func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.FoldTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordIgnored(reason string) {
	if m == nil {
		return
	}
	m.SensorIgnored.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordDebounceWait() {
	if m == nil {
		return
	}
	m.HallDebounceWaits.Inc()
}

func (m *Metrics) RecordDroppedRects(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CutoutRectsDrop.Add(float64(n))
}

func (m *Metrics) SetFoldStatus(v int) {
	if m == nil {
		return
	}
	m.FoldStatus.Set(float64(v))
}

func (m *Metrics) RecordConfigError(source string) {
	if m == nil {
		return
	}
	m.ConfigLoadErrors.WithLabelValues(source).Inc()
}
