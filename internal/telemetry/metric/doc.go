// Package metric provides Prometheus metrics for podlink.
//
//   - prometheus.go: counters and histograms updated by the synchronizer
//   - collector.go: scrape-time view of the instance store
//
// Metrics are served at /metrics by `podlink watch --metrics-addr`.
package metric
