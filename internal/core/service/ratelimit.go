// Package service provides domain services for shardkv.
package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMaxClients is the registry size past which creating a limiter
// first sweeps idle ones.
const DefaultMaxClients = 1 << 16

// RateLimiterRegistry manages one token bucket per client.
//
// A registry with a non-positive rate allows everything. Buckets that have
// refilled completely are dropped by Sweep; a full bucket is the state a
// new one starts in, so dropping it never changes a client's allowance.
type RateLimiterRegistry struct {
	mu         sync.RWMutex
	limiters   map[string]*rate.Limiter
	limit      rate.Limit
	burst      int
	maxClients int
}

// NewRateLimiterRegistry creates a registry allowing requestsPerSecond per
// client with an equal burst.
func NewRateLimiterRegistry(requestsPerSecond int) *RateLimiterRegistry {
	return &RateLimiterRegistry{
		limiters:   make(map[string]*rate.Limiter),
		limit:      rate.Limit(requestsPerSecond),
		burst:      requestsPerSecond,
		maxClients: DefaultMaxClients,
	}
}

// Enabled reports whether the registry limits anything.
func (r *RateLimiterRegistry) Enabled() bool {
	return r != nil && r.burst > 0
}

// Allow reports whether one more request from client fits its bucket.
func (r *RateLimiterRegistry) Allow(client string) bool {
	if !r.Enabled() {
		return true
	}
	return r.GetOrCreate(client).Allow()
}

// GetOrCreate retrieves an existing rate limiter or creates a new one.
func (r *RateLimiterRegistry) GetOrCreate(client string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[client]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.limiters[client]; exists {
		return limiter
	}

	if len(r.limiters) >= r.maxClients {
		r.sweepLocked(time.Now())
	}

	limiter = rate.NewLimiter(r.limit, r.burst)
	r.limiters[client] = limiter

	return limiter
}

// Len returns the number of tracked clients.
func (r *RateLimiterRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}

// Clear removes all rate limiters.
func (r *RateLimiterRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limiters = make(map[string]*rate.Limiter)
}

// Sweep drops every limiter whose bucket is full and returns how many were
// removed.
func (r *RateLimiterRegistry) Sweep() int {
	if !r.Enabled() {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(time.Now())
}

func (r *RateLimiterRegistry) sweepLocked(now time.Time) int {
	removed := 0
	for client, l := range r.limiters {
		if l.TokensAt(now) >= float64(r.burst) {
			delete(r.limiters, client)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done. It returns at
// once for a disabled registry.
func (r *RateLimiterRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	if !r.Enabled() || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
