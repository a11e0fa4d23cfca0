package reconciler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "envrepo"

// Refresh results used as label values.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
)

// Metrics tracks refresh and reconciliation activity for monitoring and
// alerting. A nil *Metrics is valid and records nothing.
type Metrics struct {
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	environments    prometheus.Gauge
	changes         *prometheus.CounterVec
	stateUpdates    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "refresh_total",
				Help:      "Total number of refresh passes by result",
			},
			[]string{"result"},
		),
		refreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "refresh_duration_seconds",
				Help:      "Duration of refresh passes including the fetch",
				Buckets:   prometheus.DefBuckets,
			},
		),
		environments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "environments",
				Help:      "Number of environments in the last published list",
			},
		),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "reconcile_changes_total",
				Help:      "Total number of environments created, updated and evicted",
			},
			[]string{"operation"},
		),
		stateUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "state_updates_total",
				Help:      "Total number of manual state updates by result",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.refreshes, m.refreshDuration, m.environments, m.changes, m.stateUpdates)
	}
	return m
}

// RecordRefresh records a finished pass.
func (m *Metrics) RecordRefresh(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(duration.Seconds())
}

// SetEnvironments sets the published environment count.
func (m *Metrics) SetEnvironments(n int) {
	if m == nil {
		return
	}
	m.environments.Set(float64(n))
}

// RecordChanges counts the changes of one pass.
func (m *Metrics) RecordChanges(changes []Change) {
	if m == nil {
		return
	}
	for _, c := range changes {
		m.changes.WithLabelValues(string(c.Operation)).Inc()
	}
}

// RecordStateUpdate counts a manual state update; applied is false when the
// id was unknown.
func (m *Metrics) RecordStateUpdate(applied bool) {
	if m == nil {
		return
	}
	result := "applied"
	if !applied {
		result = "unknown"
	}
	m.stateUpdates.WithLabelValues(result).Inc()
}
