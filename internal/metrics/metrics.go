// Package metrics exposes runtime counters as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the runtime collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	tokens      prometheus.Counter
	rules       prometheus.Counter
	failures    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	sheetBytes  prometheus.Gauge
	processing  prometheus.Histogram
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livecss_tokens_generated_total",
			Help: "Canonical class tokens that had CSS generated for them.",
		}),
		rules: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livecss_rules_injected_total",
			Help: "CSS rules appended to the runtime stylesheet.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livecss_failures_total",
			Help: "Contained failures by operation.",
		}, []string{"op"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livecss_breakpoint_transitions_total",
			Help: "Breakpoint changes applied to the body element.",
		}, []string{"to"}),
		sheetBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "livecss_stylesheet_bytes",
			Help: "Size of the runtime stylesheet text.",
		}),
		processing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "livecss_element_processing_seconds",
			Help:    "Time spent rewriting one element's class attribute.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.tokens, m.rules, m.failures, m.transitions, m.sheetBytes, m.processing)
	}
	return m
}

// TokenGenerated counts a token handed to the resolver for the first time.
func (m *Metrics) TokenGenerated() {
	if m != nil {
		m.tokens.Inc()
	}
}

// RulesInjected counts n appended rules and records the stylesheet size.
func (m *Metrics) RulesInjected(n int, sheetBytes int) {
	if m != nil {
		m.rules.Add(float64(n))
		m.sheetBytes.Set(float64(sheetBytes))
	}
}

// Failure counts an isolated failure of op.
func (m *Metrics) Failure(op string) {
	if m != nil {
		m.failures.WithLabelValues(op).Inc()
	}
}

// Transition counts a body breakpoint change to the named state.
func (m *Metrics) Transition(to string) {
	if m != nil {
		m.transitions.WithLabelValues(to).Inc()
	}
}

// ObserveElement records how long one element took to process.
func (m *Metrics) ObserveElement(d time.Duration) {
	if m != nil {
		m.processing.Observe(d.Seconds())
	}
}
