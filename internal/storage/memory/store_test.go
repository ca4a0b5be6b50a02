package memory

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/pkg/cmap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestNew_UnknownHash(t *testing.T) {
	_, err := New(Config{ShardCount: 8, Hash: "md5"})
	if err == nil {
		t.Fatal("New with unknown hash should fail")
	}
}

func TestNew_Config(t *testing.T) {
	store, err := New(Config{ShardCount: 8, Hash: cmap.HashXXHash})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if store.ShardCount() != 8 {
		t.Errorf("ShardCount() = %d, want 8", store.ShardCount())
	}
	if store.HashName() != cmap.HashXXHash {
		t.Errorf("HashName() = %q, want %q", store.HashName(), cmap.HashXXHash)
	}

	def, _ := New(Config{})
	if def.ShardCount() != cmap.DefaultShardCount || def.HashName() != cmap.DefaultHash {
		t.Errorf("zero Config gave (%d, %q), want defaults", def.ShardCount(), def.HashName())
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	outcome, err := store.Put(ctx, "a", []byte("1"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if outcome != domain.PutInserted {
		t.Errorf("first Put outcome = %v, want inserted", outcome)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("1")) {
		t.Errorf("Get = %q, want %q", got, "1")
	}
}

func TestStore_Overwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "a", []byte("1"))
	outcome, _ := store.Put(ctx, "a", []byte("2"))
	if outcome != domain.PutUpdated {
		t.Errorf("second Put outcome = %v, want updated", outcome)
	}

	got, _ := store.Get(ctx, "a")
	if string(got) != "2" {
		t.Errorf("Get = %q, want %q", got, "2")
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Delete(ctx, "missing"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrKeyNotFound", err)
	}

	store.Put(ctx, "a", []byte("1"))
	removed, err := store.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if string(removed) != "1" {
		t.Errorf("Delete returned %q, want %q", removed, "1")
	}

	if _, err := store.Delete(ctx, "a"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("second Delete error = %v, want ErrKeyNotFound", err)
	}
	if _, err := store.Get(ctx, "a"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrKeyNotFound", err)
	}
}

func TestStore_CopiesValues(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	input := []byte("original")
	store.Put(ctx, "k", input)
	input[0] = 'X'

	got, _ := store.Get(ctx, "k")
	if string(got) != "original" {
		t.Fatalf("stored value changed through caller slice: %q", got)
	}

	got[0] = 'Y'
	again, _ := store.Get(ctx, "k")
	if string(again) != "original" {
		t.Fatalf("stored value changed through returned slice: %q", again)
	}
}

func TestStore_EmptyValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "empty", nil)
	got, err := store.Get(ctx, "empty")
	if err != nil {
		t.Fatalf("Get(empty) error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Get(empty) = %#v, want non-nil empty slice", got)
	}
	if !store.Exists(ctx, "empty") {
		t.Error("Exists(empty) = false, want true")
	}
}

func TestStore_Stats(t *testing.T) {
	store, _ := New(Config{ShardCount: 4})
	ctx := context.Background()

	for i := 0; i < 40; i++ {
		store.Put(ctx, "k"+strconv.Itoa(i), []byte("v"))
	}

	stats := store.Stats()
	if len(stats) != 4 {
		t.Fatalf("len(Stats()) = %d, want 4", len(stats))
	}
	total := 0
	for _, s := range stats {
		total += s.Count
	}
	if total != 40 || store.Len() != 40 {
		t.Errorf("total = %d, Len() = %d, want 40", total, store.Len())
	}
}

func TestStore_KeysAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		store.Put(ctx, "k"+strconv.Itoa(i), []byte("v"))
	}
	if keys := store.Keys(); len(keys) != 10 {
		t.Fatalf("len(Keys()) = %d, want 10", len(keys))
	}

	if n := store.Clear(); n != 10 {
		t.Errorf("Clear() = %d, want 10", n)
	}
	if store.Len() != 0 || len(store.Keys()) != 0 {
		t.Errorf("store not empty after Clear: Len() = %d", store.Len())
	}
	if _, err := store.Get(ctx, "k1"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Get after Clear error = %v, want ErrKeyNotFound", err)
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	inserted := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, _ := store.Put(ctx, "shared", []byte(strconv.Itoa(i)))
			if outcome == domain.PutInserted {
				inserted <- struct{}{}
			}
		}(i)
	}
	wg.Wait()
	close(inserted)

	if n := len(inserted); n != 1 {
		t.Errorf("inserted reported %d times, want 1", n)
	}

	got, err := store.Get(ctx, "shared")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	n, err := strconv.Atoi(string(got))
	if err != nil || n < 0 || n >= 100 {
		t.Errorf("Get = %q, want one of the written values", got)
	}
}
