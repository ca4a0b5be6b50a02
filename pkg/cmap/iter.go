// Package cmap provides a concurrent-safe sharded map.
package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration.
// Note: This acquires locks shard by shard, so the view may not be consistent.
// The callback runs under a shard's read lock and must not call back into
// the same Map for writes.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		if !s.rangeItems(fn) {
			return
		}
	}
}

func (s *shard[V]) rangeItems(fn func(key string, value V) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.items {
		if !fn(k, v) {
			return false
		}
	}
	return true
}

// Keys returns all keys.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// ShardStats describes the occupancy of one shard.
type ShardStats struct {
	Index int `json:"index"`
	Count int `json:"count"`
}

// Stats returns statistics about all shards, ordered by shard index.
func (m *Map[V]) Stats() []ShardStats {
	stats := make([]ShardStats, len(m.shards))
	for i, s := range m.shards {
		stats[i] = ShardStats{
			Index: i,
			Count: s.len(),
		}
	}
	return stats
}
