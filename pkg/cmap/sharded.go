// Package cmap provides a concurrent-safe sharded map.
//
// It uses sharding to reduce lock contention, providing better
// performance than a single mutex-guarded map for high-concurrency workloads.
package cmap

// DefaultShardCount is the number of shards used when none is configured.
const DefaultShardCount = 32

// Map is a concurrent-safe sharded map keyed by string.
//
// Keys are treated as opaque byte sequences: only equality and the
// configured Hasher are ever applied to them.
type Map[V any] struct {
	shards []*shard[V]
	// mask is shardCount-1 when shardCount is a power of two, 0 otherwise.
	mask   uint64
	pow2   bool
	hasher Hasher
}

// Option configures a Map at construction time.
type Option func(*options)

type options struct {
	shardCount int
	hasher     Hasher
}

// WithShardCount sets the number of shards. Values below 1 fall back to
// DefaultShardCount. Powers of two route with a bit mask, anything else
// with a modulo.
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

// WithHasher sets the routing hash function. A nil hasher is ignored.
func WithHasher(h Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// New creates a sharded map. With no options it has DefaultShardCount
// shards and routes with Murmur3.
func New[V any](opts ...Option) *Map[V] {
	o := options{
		shardCount: DefaultShardCount,
		hasher:     Murmur3,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shardCount < 1 {
		o.shardCount = DefaultShardCount
	}

	m := &Map[V]{
		shards: make([]*shard[V], o.shardCount),
		hasher: o.hasher,
	}
	if IsPowerOfTwo(o.shardCount) {
		m.pow2 = true
		m.mask = uint64(o.shardCount - 1)
	}

	for i := range m.shards {
		m.shards[i] = newShard[V]()
	}

	return m
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// ShardIndex returns the index of the shard that owns key.
// It depends only on the key, the hasher and the shard count.
func (m *Map[V]) ShardIndex(key string) int {
	h := m.hasher(key)
	if m.pow2 {
		return int(h & m.mask)
	}
	return int(h % uint64(len(m.shards)))
}

func (m *Map[V]) getShard(key string) *shard[V] {
	return m.shards[m.ShardIndex(key)]
}

// Get retrieves the value stored under key.
// The boolean is false when the key is absent.
func (m *Map[V]) Get(key string) (V, bool) {
	return m.getShard(key).get(key)
}

// Put stores value under key and returns the value it replaced.
// updated is false when the key was newly inserted.
func (m *Map[V]) Put(key string, value V) (prev V, updated bool) {
	return m.getShard(key).put(key, value)
}

// Delete removes key and returns the removed value.
// Deleting an absent key is a no-op that reports false.
func (m *Map[V]) Delete(key string) (V, bool) {
	return m.getShard(key).delete(key)
}

// Has checks if a key exists.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the total number of entries. Shards are counted one after
// another, so the result is approximate under concurrent writes.
func (m *Map[V]) Len() int {
	count := 0
	for _, s := range m.shards {
		count += s.len()
	}
	return count
}

// ShardCount returns the number of shards.
func (m *Map[V]) ShardCount() int {
	return len(m.shards)
}

// Clear removes all entries, one shard at a time.
func (m *Map[V]) Clear() {
	for _, s := range m.shards {
		s.clear()
	}
}
