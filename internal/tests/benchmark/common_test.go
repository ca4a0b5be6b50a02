package benchmark

import (
	"context"
	"crypto/rand"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/yndnr/shardkv-go/internal/storage/memory"
)

// KeyCounts defines the preloaded key counts for benchmarking.
var KeyCounts = []int{10000, 100000, 500000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 10000}

// ShardCounts compares routing granularity.
var ShardCounts = []int{1, 8, 32, 128}

var entropy = ulid.Monotonic(rand.Reader, 0)

// newKey generates a unique, roughly time-ordered key.
func newKey() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return "key:" + strings.ToLower(id.String())
}

// newValue returns a value of the given size.
func newValue(size int) []byte {
	v := make([]byte, size)
	for i := range v {
		v[i] = byte('a' + i%26)
	}
	return v
}

// newStore creates a store with the given shard count and hash.
func newStore(b *testing.B, shards int, hash string) *memory.Store {
	b.Helper()
	store, err := memory.New(memory.Config{ShardCount: shards, Hash: hash})
	if err != nil {
		b.Fatalf("memory.New: %v", err)
	}
	return store
}

// prefillStore loads count keys with 64-byte values and returns the keys.
func prefillStore(ctx context.Context, store *memory.Store, count int) []string {
	keys := make([]string, count)
	value := newValue(64)
	for i := 0; i < count; i++ {
		keys[i] = newKey()
		store.Put(ctx, keys[i], value)
	}
	return keys
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various preload sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
