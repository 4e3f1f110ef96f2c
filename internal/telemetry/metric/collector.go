package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreStats is what the collector reads at scrape time.
type StoreStats interface {
	EventCount() int
	MaxEvents() int
	InstanceURL() string
}

// Collector exposes the instance store's current state.
type Collector struct {
	stats StoreStats

	events     *prometheus.Desc
	maxEvents  *prometheus.Desc
	configured *prometheus.Desc
}

// NewCollector creates a collector reading from stats.
func NewCollector(stats StoreStats) *Collector {
	return &Collector{
		stats: stats,
		events: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "events", "stored"),
			"Events currently held in the event log", nil, nil),
		maxEvents: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "events", "capacity"),
			"Event log ceiling", nil, nil),
		configured: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "instance", "configured"),
			"1 when an instance URL is set, 0 when falling back to the local origin", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.events
	ch <- c.maxEvents
	ch <- c.configured
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	configured := 0.0
	if c.stats.InstanceURL() != "" {
		configured = 1
	}
	ch <- prometheus.MustNewConstMetric(c.events, prometheus.GaugeValue, float64(c.stats.EventCount()))
	ch <- prometheus.MustNewConstMetric(c.maxEvents, prometheus.GaugeValue, float64(c.stats.MaxEvents()))
	ch <- prometheus.MustNewConstMetric(c.configured, prometheus.GaugeValue, configured)
}
