// Package metrics defines Prometheus metrics for the auth server.
//
// Metric naming follows Prometheus conventions:
//   - gophauth_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels shared by the counters.
const (
	OutcomeSuccess      = "success"
	OutcomeConflict     = "conflict"
	OutcomeInvalid      = "invalid"
	OutcomeUnauthorized = "unauthorized"
	OutcomeForbidden    = "forbidden"
	OutcomeError        = "error"
)

// Metrics holds the collectors; a nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RegistrationsTotal  *prometheus.CounterVec
	LoginsTotal         *prometheus.CounterVec
	GateDecisionsTotal  *prometheus.CounterVec
	HashDurationSeconds prometheus.Histogram
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_registrations_total",
				Help: "Total registration attempts by outcome.",
			},
			[]string{"outcome"},
		),

		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_logins_total",
				Help: "Total login attempts by outcome.",
			},
			[]string{"outcome"},
		),

		GateDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_gate_decisions_total",
				Help: "Total authorization decisions by transport and outcome.",
			},
			[]string{"transport", "outcome"},
		),

		HashDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gophauth_password_hash_duration_seconds",
				Help:    "Time spent hashing or verifying passwords.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RegistrationsTotal,
		m.LoginsTotal,
		m.GateDecisionsTotal,
		m.HashDurationSeconds,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) GateDecision(transport, outcome string) {
	if m == nil {
		return
	}
	m.GateDecisionsTotal.WithLabelValues(transport, outcome).Inc()
}

// ObserveHash records the time elapsed since start.
func (m *Metrics) ObserveHash(start time.Time) {
	if m == nil {
		return
	}
	m.HashDurationSeconds.Observe(time.Since(start).Seconds())
}
