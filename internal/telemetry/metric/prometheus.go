package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "podlink"

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the synchronizer's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	fetches         *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	instanceChanges prometheus.Counter
	resets          *prometheus.CounterVec
	rejected        *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "fetches_total",
			Help:      "Settings fetches by kind and outcome",
		}, []string{"kind", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of settings fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		instanceChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "instance_changes_total",
			Help:      "Number of times the active instance was switched",
		}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "dependent_resets_total",
			Help:      "Reset instructions sent to dependent containers",
		}, []string{"dependent"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "rejected_total",
			Help:      "Settings records not applied, by reason",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.fetches, m.fetchDuration, m.instanceChanges, m.resets, m.rejected)
	return m
}

// ObserveFetch records one fetch.
func (m *Metrics) ObserveFetch(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(kind, outcome).Inc()
	m.fetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// InstanceChanged records a switch of the active instance.
func (m *Metrics) InstanceChanged() {
	if m == nil {
		return
	}
	m.instanceChanges.Inc()
}

// DependentReset records a reset sent to the named dependent.
func (m *Metrics) DependentReset(name string) {
	if m == nil {
		return
	}
	m.resets.WithLabelValues(name).Inc()
}

// SettingsRejected records n records that were not applied.
func (m *Metrics) SettingsRejected(reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rejected.WithLabelValues(reason).Add(float64(n))
}

// Handler returns the /metrics handler for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
