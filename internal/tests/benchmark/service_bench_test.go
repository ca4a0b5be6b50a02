package benchmark

import (
	"context"
	"testing"

	"github.com/yndnr/shardkv-go/internal/core/service"
	"github.com/yndnr/shardkv-go/internal/telemetry/metric"
	"github.com/yndnr/shardkv-go/pkg/cmap"
)

// BenchmarkServicePut measures the overhead of validation and metrics
// on top of the raw store.
func BenchmarkServicePut(b *testing.B) {
	ctx := context.Background()
	store := newStore(b, cmap.DefaultShardCount, cmap.DefaultHash)
	svc := service.NewKVService(store, service.WithRecorder(metric.NewRegistry()))
	value := newValue(64)

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = newKey()
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Put(ctx, keys[i], value); err != nil {
			b.Fatalf("Put failed: %v", err)
		}
	}
}

// BenchmarkServiceGetParallel measures concurrent reads through the service.
func BenchmarkServiceGetParallel(b *testing.B) {
	ctx := context.Background()
	store := newStore(b, cmap.DefaultShardCount, cmap.DefaultHash)
	svc := service.NewKVService(store, service.WithRecorder(metric.NewRegistry()))
	keys := prefillStore(ctx, store, 10000)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			svc.Get(ctx, keys[i%len(keys)])
			i++
		}
	})
}
