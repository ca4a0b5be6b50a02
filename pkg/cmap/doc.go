// Package cmap provides the sharded concurrent map behind shardkv.
//
// The key space is split across a fixed number of shards chosen at
// construction time. Each shard owns a plain Go map guarded by its own
// sync.RWMutex, so contention is confined to the shard a key routes to:
//
//   - Routing: index = hash(key) & (N-1) for power-of-two N, hash(key) % N otherwise
//   - Locking: readers share a shard's RLock, writers take its Lock
//   - One lock at a time: no operation ever holds two shard locks
//   - Fixed size: the shard count never changes for the lifetime of a Map
//
// Usage:
//
//	m := cmap.New[[]byte](cmap.WithShardCount(32), cmap.WithHasher(cmap.XXHash))
//	_, updated := m.Put("key", []byte("value"))
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are safe for concurrent use. Operations on the same key
// are totally ordered by that key's shard lock, so a Get always observes a
// value that some Put actually stored. Range, Keys and Stats visit shards
// one by one and therefore do not see a single point-in-time snapshot.
package cmap
