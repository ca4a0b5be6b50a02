// Package service provides domain services for shardkv.
package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/gobwas/glob"

	"github.com/yndnr/shardkv-go/internal/core/domain"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
	"github.com/yndnr/shardkv-go/pkg/cmap"
)

// KVRepository defines the storage interface for key-value operations.
//
// Get and Delete report absence with domain.ErrKeyNotFound; no other error
// is expected from an in-memory implementation.
type KVRepository interface {
	// Get returns a copy of the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put inserts or overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) (domain.PutOutcome, error)

	// Delete removes key and returns the removed value.
	Delete(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) bool

	// Len returns the approximate number of entries.
	Len() int

	// ShardCount returns the fixed number of shards.
	ShardCount() int

	// ShardIndex returns the shard a key routes to.
	ShardIndex(key string) int

	// Stats returns per-shard entry counts.
	Stats() []cmap.ShardStats

	// Keys returns every key. The view is not a consistent snapshot.
	Keys() []string

	// Clear removes every entry and returns the approximate count removed.
	Clear() int
}

// Operation names used for metrics and logs.
const (
	OpGet    = "get"
	OpPut    = "put"
	OpDelete = "delete"
	OpExists = "exists"
	OpKeys   = "keys"
	OpFlush  = "flush"
)

// Operation outcomes used for metrics.
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeInserted = "inserted"
	OutcomeUpdated  = "updated"
	OutcomeDeleted  = "deleted"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Recorder receives one observation per service operation.
type Recorder interface {
	ObserveOp(op, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOp(string, string, time.Duration) {}

// KVService handles key-value operations.
type KVService struct {
	repo     KVRepository
	limits   domain.Limits
	recorder Recorder
	hashName string
}

// KVOption configures a KVService.
type KVOption func(*KVService)

// WithLimits sets the key and value size limits.
func WithLimits(limits domain.Limits) KVOption {
	return func(s *KVService) {
		s.limits = limits
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) KVOption {
	return func(s *KVService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithHashName records the routing hash name reported by Stats. Without
// it the name is taken from the repository when it exposes HashName.
func WithHashName(name string) KVOption {
	return func(s *KVService) {
		s.hashName = name
	}
}

// NewKVService creates a new KVService.
func NewKVService(repo KVRepository, opts ...KVOption) *KVService {
	s := &KVService{
		repo:     repo,
		limits:   domain.DefaultLimits(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hashName == "" {
		if hn, ok := repo.(interface{ HashName() string }); ok {
			s.hashName = hn.HashName()
		}
	}
	return s
}

// Limits returns the configured size limits.
func (s *KVService) Limits() domain.Limits {
	return s.limits
}

// ============================================================================
// Get
// ============================================================================

// Get returns the value stored under key.
// Absence is reported as domain.ErrKeyNotFound.
func (s *KVService) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()

	if err := domain.ValidateKey(key, s.limits.MaxKeyBytes); err != nil {
		s.recorder.ObserveOp(OpGet, OutcomeInvalid, time.Since(start))
		return nil, err
	}

	value, err := s.repo.Get(ctx, key)
	s.recorder.ObserveOp(OpGet, outcomeFor(err, OutcomeHit), time.Since(start))
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("get", "key_len", len(key), "value_len", len(value))
	return value, nil
}

// ============================================================================
// Put
// ============================================================================

// PutResult describes a completed put.
type PutResult struct {
	Outcome domain.PutOutcome
	Shard   int
}

// Created reports whether the put inserted a new key.
func (r *PutResult) Created() bool {
	return r.Outcome == domain.PutInserted
}

// Put inserts or overwrites the value stored under key.
func (s *KVService) Put(ctx context.Context, key string, value []byte) (*PutResult, error) {
	start := time.Now()

	if err := domain.ValidateKey(key, s.limits.MaxKeyBytes); err != nil {
		s.recorder.ObserveOp(OpPut, OutcomeInvalid, time.Since(start))
		return nil, err
	}
	if err := domain.ValidateValue(value, s.limits.MaxValueBytes); err != nil {
		s.recorder.ObserveOp(OpPut, OutcomeInvalid, time.Since(start))
		return nil, err
	}

	outcome, err := s.repo.Put(ctx, key, value)
	if err != nil {
		s.recorder.ObserveOp(OpPut, OutcomeError, time.Since(start))
		return nil, err
	}
	s.recorder.ObserveOp(OpPut, outcome.String(), time.Since(start))

	result := &PutResult{
		Outcome: outcome,
		Shard:   s.repo.ShardIndex(key),
	}
	logger.L(ctx).Debug("put",
		"key_len", len(key),
		"value_len", len(value),
		"outcome", outcome.String(),
		"shard", result.Shard)
	return result, nil
}

// ============================================================================
// Delete
// ============================================================================

// Delete removes key and returns the removed value.
// Deleting an absent key reports domain.ErrKeyNotFound and changes nothing.
func (s *KVService) Delete(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()

	if err := domain.ValidateKey(key, s.limits.MaxKeyBytes); err != nil {
		s.recorder.ObserveOp(OpDelete, OutcomeInvalid, time.Since(start))
		return nil, err
	}

	removed, err := s.repo.Delete(ctx, key)
	s.recorder.ObserveOp(OpDelete, outcomeFor(err, OutcomeDeleted), time.Since(start))
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("delete", "key_len", len(key))
	return removed, nil
}

// Exists reports whether key is present.
func (s *KVService) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()

	if err := domain.ValidateKey(key, s.limits.MaxKeyBytes); err != nil {
		s.recorder.ObserveOp(OpExists, OutcomeInvalid, time.Since(start))
		return false, err
	}

	ok := s.repo.Exists(ctx, key)
	outcome := OutcomeMiss
	if ok {
		outcome = OutcomeHit
	}
	s.recorder.ObserveOp(OpExists, outcome, time.Since(start))
	return ok, nil
}

// ============================================================================
// Keys / Flush
// ============================================================================

// Keys returns the keys matching a glob pattern, sorted. The pattern
// supports *, ?, [abc], [!abc], [a-z], {a,b} and backslash escapes; * also
// matches '/'.
func (s *KVService) Keys(ctx context.Context, pattern string) ([]string, error) {
	start := time.Now()

	g, err := glob.Compile(pattern)
	if err != nil {
		s.recorder.ObserveOp(OpKeys, OutcomeInvalid, time.Since(start))
		return nil, domain.ErrBadPattern.WithDetails(err.Error())
	}

	all := s.repo.Keys()
	keys := all[:0]
	for _, k := range all {
		if g.Match(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	s.recorder.ObserveOp(OpKeys, OutcomeHit, time.Since(start))

	logger.L(ctx).Debug("keys", "pattern_len", len(pattern), "matched", len(keys))
	return keys, nil
}

// Flush removes every entry and returns how many were removed. Writes
// racing with a flush may survive it.
func (s *KVService) Flush(ctx context.Context) int {
	start := time.Now()
	n := s.repo.Clear()
	s.recorder.ObserveOp(OpFlush, OutcomeDeleted, time.Since(start))

	logger.L(ctx).Info("store flushed", "removed", n)
	return n
}

// ============================================================================
// Stats
// ============================================================================

// StatsResult summarizes the store.
type StatsResult struct {
	Entries    int               `json:"entries"`
	ShardCount int               `json:"shard_count"`
	Hash       string            `json:"hash,omitempty"`
	Shards     []cmap.ShardStats `json:"shards"`
}

// Len returns the approximate number of entries.
func (s *KVService) Len() int {
	return s.repo.Len()
}

// Stats returns per-shard occupancy. Shards are read one at a time, so the
// numbers are approximate under concurrent writes.
func (s *KVService) Stats() *StatsResult {
	shards := s.repo.Stats()
	total := 0
	for _, st := range shards {
		total += st.Count
	}
	return &StatsResult{
		Entries:    total,
		ShardCount: s.repo.ShardCount(),
		Hash:       s.hashName,
		Shards:     shards,
	}
}

// outcomeFor maps a repository error to a metrics outcome.
func outcomeFor(err error, success string) string {
	switch {
	case err == nil:
		return success
	case errors.Is(err, domain.ErrKeyNotFound):
		return OutcomeMiss
	default:
		return OutcomeError
	}
}
