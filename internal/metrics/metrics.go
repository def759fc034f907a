// Package metrics exposes Prometheus collectors for the command loop.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "curlloop"

// Trigger values for the invocations counter.
const (
	TriggerInitial = "initial"
	TriggerTick    = "tick"
	TriggerOnce    = "once"
)

// Metrics holds the loop collectors.
type Metrics struct {
	invocations   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	loopActive    prometheus.Gauge
	loopStarts    prometheus.Counter
	journalErrors prometheus.Counter
	notifyErrors  prometheus.Counter
}

// New creates the collectors and registers them on reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Completed command invocations",
			},
			[]string{"trigger", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "invocation_duration_seconds",
				Help:      "Wall time of command invocations",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
			},
			[]string{"outcome"},
		),
		loopActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "loop_active",
				Help:      "1 while a loop is scheduled, 0 otherwise",
			},
		),
		loopStarts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loop_starts_total",
				Help:      "Accepted loop start requests",
			},
		),
		journalErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "journal_errors_total",
				Help:      "Failed journal appends",
			},
		),
		notifyErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notify_errors_total",
				Help:      "Failed desktop notification deliveries",
			},
		),
	}

	reg.MustRegister(
		m.invocations,
		m.duration,
		m.loopActive,
		m.loopStarts,
		m.journalErrors,
		m.notifyErrors,
	)

	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveInvocation records one finished invocation.
func (m *Metrics) ObserveInvocation(trigger string, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if failed {
		outcome = "failure"
	}
	m.invocations.WithLabelValues(trigger, outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// LoopStarted records an accepted start request.
func (m *Metrics) LoopStarted() {
	if m == nil {
		return
	}
	m.loopStarts.Inc()
	m.loopActive.Set(1)
}

// LoopStopped marks the loop as idle.
func (m *Metrics) LoopStopped() {
	if m == nil {
		return
	}
	m.loopActive.Set(0)
}

// JournalFailed counts a failed append.
func (m *Metrics) JournalFailed() {
	if m == nil {
		return
	}
	m.journalErrors.Inc()
}

// NotifyFailed counts a failed notification.
func (m *Metrics) NotifyFailed() {
	if m == nil {
		return
	}
	m.notifyErrors.Inc()
}
