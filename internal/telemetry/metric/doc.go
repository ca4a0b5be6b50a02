// Package metric provides Prometheus metrics for shardkv.
//
//   - prometheus.go: metric registry, operation and HTTP instruments, /metrics handler
//   - collector.go: per-shard occupancy collector read at scrape time
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
