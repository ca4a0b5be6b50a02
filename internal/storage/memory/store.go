// Package memory provides the in-memory key-value store for shardkv.
package memory

import (
	"bytes"
	"context"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/pkg/cmap"
)

// Store provides in-memory key-value storage over a sharded map.
//
// A Store is created once at startup and shared by every transport.
type Store struct {
	entries  *cmap.Map[[]byte]
	hashName string
}

// Config configures a Store.
type Config struct {
	// ShardCount is the fixed number of shards (default: cmap.DefaultShardCount).
	ShardCount int
	// Hash names the routing hash function (murmur3, xxhash).
	Hash string
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		ShardCount: cmap.DefaultShardCount,
		Hash:       cmap.DefaultHash,
	}
}

// New creates a new in-memory store. It fails only for an unknown hash name.
func New(cfg Config) (*Store, error) {
	hasher, err := cmap.HasherByName(cfg.Hash)
	if err != nil {
		return nil, err
	}

	hashName := cfg.Hash
	if hashName == "" {
		hashName = cmap.DefaultHash
	}

	return &Store{
		entries: cmap.New[[]byte](
			cmap.WithShardCount(cfg.ShardCount),
			cmap.WithHasher(hasher),
		),
		hashName: hashName,
	}, nil
}

// Get returns a copy of the value stored under key, or
// domain.ErrKeyNotFound when the key is absent.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := s.entries.Get(key)
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return bytes.Clone(nonNil(value)), nil
}

// Put stores a copy of value under key and reports whether it inserted a
// new entry or replaced an existing one.
func (s *Store) Put(_ context.Context, key string, value []byte) (domain.PutOutcome, error) {
	// Copy before taking the shard lock so the lock covers only the map write.
	stored := bytes.Clone(nonNil(value))
	if _, updated := s.entries.Put(key, stored); updated {
		return domain.PutUpdated, nil
	}
	return domain.PutInserted, nil
}

// Delete removes key and returns the removed value, or
// domain.ErrKeyNotFound when the key was already absent.
func (s *Store) Delete(_ context.Context, key string) ([]byte, error) {
	prev, ok := s.entries.Delete(key)
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	// The removed slice is no longer reachable from any shard.
	return nonNil(prev), nil
}

// Exists reports whether key is present.
func (s *Store) Exists(_ context.Context, key string) bool {
	return s.entries.Has(key)
}

// Len returns the approximate number of entries.
func (s *Store) Len() int {
	return s.entries.Len()
}

// ShardCount returns the fixed number of shards.
func (s *Store) ShardCount() int {
	return s.entries.ShardCount()
}

// ShardIndex returns the shard a key routes to.
func (s *Store) ShardIndex(key string) int {
	return s.entries.ShardIndex(key)
}

// Stats returns per-shard entry counts.
func (s *Store) Stats() []cmap.ShardStats {
	return s.entries.Stats()
}

// Keys returns every key, gathered one shard at a time.
func (s *Store) Keys() []string {
	return s.entries.Keys()
}

// Clear removes every entry and returns how many were present. Shards are
// emptied one after another.
func (s *Store) Clear() int {
	n := s.entries.Len()
	s.entries.Clear()
	return n
}

// HashName returns the name of the routing hash.
func (s *Store) HashName() string {
	return s.hashName
}

// nonNil keeps empty values distinguishable from absence for callers
// that test the returned slice against nil.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
