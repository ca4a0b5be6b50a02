// Package domain defines the core domain models for shardkv.
//
// It holds the vocabulary shared by the store, the service layer and the
// transports:
//
//   - entry.go: Entry, PutOutcome, boundary Limits and key/value validation
//   - errors.go: DomainError and the SKV-* error codes
//
// The only error the map itself can report is ErrKeyNotFound, the absence
// marker. Argument errors are raised before a call ever reaches the map.
package domain
