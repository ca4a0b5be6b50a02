package service

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestRateLimiterRegistry_Disabled(t *testing.T) {
	r := NewRateLimiterRegistry(0)
	if r.Enabled() {
		t.Fatal("registry with rate 0 should be disabled")
	}
	for i := 0; i < 1000; i++ {
		if !r.Allow("1.2.3.4") {
			t.Fatal("disabled registry rejected a request")
		}
	}
	if r.Len() != 0 {
		t.Errorf("disabled registry tracked %d clients", r.Len())
	}

	var nilRegistry *RateLimiterRegistry
	if !nilRegistry.Allow("x") {
		t.Error("nil registry should allow everything")
	}
}

func TestRateLimiterRegistry_Burst(t *testing.T) {
	r := NewRateLimiterRegistry(5)

	allowed := 0
	for i := 0; i < 20; i++ {
		if r.Allow("client-a") {
			allowed++
		}
	}
	// Burst equals the rate; a few refills may land during the loop.
	if allowed < 5 || allowed > 7 {
		t.Errorf("allowed %d of 20 burst requests, want about 5", allowed)
	}

	if !r.Allow("client-b") {
		t.Error("a second client should have its own bucket")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRateLimiterRegistry_GetOrCreateReuses(t *testing.T) {
	r := NewRateLimiterRegistry(10)
	if r.GetOrCreate("a") != r.GetOrCreate("a") {
		t.Error("GetOrCreate should return the same limiter for the same client")
	}
	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", r.Len())
	}
}

func TestRateLimiterRegistry_SweepKeepsActiveClients(t *testing.T) {
	r := NewRateLimiterRegistry(1)

	if !r.Allow("busy") {
		t.Fatal("first request should be allowed")
	}
	r.GetOrCreate("idle")

	if removed := r.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() after Sweep = %d, want 1", r.Len())
	}
	// The drained bucket survived, so the client is still limited.
	if r.Allow("busy") {
		t.Error("sweep reset an active client's bucket")
	}
}

func TestRateLimiterRegistry_BoundedGrowth(t *testing.T) {
	r := NewRateLimiterRegistry(1)
	r.maxClients = 8

	// Distinct clients that never spend a token are swept as soon as the
	// registry reaches its bound.
	for i := 0; i < 1000; i++ {
		r.GetOrCreate(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
		if n := r.Len(); n > 8 {
			t.Fatalf("after %d clients Len() = %d, want at most 8", i+1, n)
		}
	}
}

func TestRateLimiterRegistry_RunSweeper(t *testing.T) {
	r := NewRateLimiterRegistry(1)
	r.GetOrCreate("idle")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for r.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, sweeper did not run", r.Len())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunSweeper did not return after cancel")
	}

	// Disabled registries return immediately.
	NewRateLimiterRegistry(0).RunSweeper(context.Background(), time.Millisecond)
}
