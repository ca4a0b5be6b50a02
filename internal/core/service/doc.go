// Package service provides domain services for shardkv.
//
// Services sit between the transports and the store. They define the
// storage interface they depend on, validate arguments before any call
// reaches the map, and record metrics for every operation.
//
// This package contains:
//
//   - KVService: get, put, delete and stats over a KVRepository
//   - RateLimiterRegistry: per-client token buckets shared by transports
//
// Services are stateless apart from their dependencies and safe for
// concurrent use.
package service
