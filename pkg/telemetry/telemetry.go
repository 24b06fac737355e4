// Package telemetry exposes Prometheus metrics for the analysis
// pipeline: admission outcomes, quota consumption, provider latency,
// and signature database health.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector. One instance is created at startup and
// shared; all methods are safe for concurrent use.
type Metrics struct {
	evaluations   *prometheus.CounterVec
	quotaUsed     prometheus.Gauge
	quotaLimit    prometheus.Gauge
	providerCalls *prometheus.HistogramVec
	providerFails *prometheus.CounterVec
	sigLoaded     prometheus.Gauge
	sigLoadErrors prometheus.Counter
}

// New registers all collectors on the given registry and returns the
// recording handle. Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vidguard",
			Name:      "evaluations_total",
			Help:      "Analysis evaluations by outcome (cache_hit, computed, stale_served, ...).",
		}, []string{"outcome"}),
		quotaUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vidguard",
			Name:      "quota_used",
			Help:      "Computed analyses charged against today's quota.",
		}),
		quotaLimit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vidguard",
			Name:      "quota_limit",
			Help:      "Configured daily quota; zero means unlimited.",
		}),
		providerCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vidguard",
			Name:      "provider_fetch_seconds",
			Help:      "Upstream provider fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		providerFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vidguard",
			Name:      "provider_failures_total",
			Help:      "Upstream provider fetches that returned an error.",
		}, []string{"provider"}),
		sigLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vidguard",
			Name:      "signatures_loaded",
			Help:      "Signatures currently held by the repository.",
		}),
		sigLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vidguard",
			Name:      "signature_load_errors_total",
			Help:      "Signature definitions rejected during load or reload.",
		}),
	}
	reg.MustRegister(
		m.evaluations, m.quotaUsed, m.quotaLimit,
		m.providerCalls, m.providerFails,
		m.sigLoaded, m.sigLoadErrors,
	)
	return m
}

// ObserveEvaluation records one admission outcome.
func (m *Metrics) ObserveEvaluation(outcome string) {
	m.evaluations.WithLabelValues(outcome).Inc()
}

// SetQuotaUsed records current quota consumption.
func (m *Metrics) SetQuotaUsed(used, limit int) {
	m.quotaUsed.Set(float64(used))
	m.quotaLimit.Set(float64(limit))
}

// ObserveProviderFetch records one upstream fetch.
func (m *Metrics) ObserveProviderFetch(provider string, d time.Duration, err error) {
	m.providerCalls.WithLabelValues(provider).Observe(d.Seconds())
	if err != nil {
		m.providerFails.WithLabelValues(provider).Inc()
	}
}

// SetSignaturesLoaded records the repository size after a (re)load.
func (m *Metrics) SetSignaturesLoaded(n int) {
	m.sigLoaded.Set(float64(n))
}

// AddSignatureLoadErrors records rejected definitions from a (re)load.
func (m *Metrics) AddSignatureLoadErrors(n int) {
	m.sigLoadErrors.Add(float64(n))
}
