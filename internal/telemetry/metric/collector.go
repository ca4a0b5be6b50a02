package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/shardkv-go/pkg/cmap"
)

// ShardStatsSource reports per-shard entry counts.
type ShardStatsSource interface {
	Stats() []cmap.ShardStats
}

// ShardCollector exports shard occupancy on every scrape.
type ShardCollector struct {
	src ShardStatsSource

	entries *prometheus.Desc
	shards  *prometheus.Desc
}

// NewShardCollector creates a collector over src.
func NewShardCollector(src ShardStatsSource) *ShardCollector {
	return &ShardCollector{
		src: src,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "shard_entries"),
			"Number of entries held by each shard.",
			[]string{"shard"}, nil,
		),
		shards: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "shards"),
			"Number of shards in the store.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *ShardCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.shards
}

// Collect implements prometheus.Collector.
func (c *ShardCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.Stats()
	for _, s := range stats {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Count), strconv.Itoa(s.Index))
	}
	ch <- prometheus.MustNewConstMetric(c.shards, prometheus.GaugeValue, float64(len(stats)))
}

var _ prometheus.Collector = (*ShardCollector)(nil)
