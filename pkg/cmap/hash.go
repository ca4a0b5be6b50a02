package cmap

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Hasher maps a key to a 64-bit hash used for shard routing.
//
// Implementations must be pure: the same key always yields the same hash
// within one process.
type Hasher func(key string) uint64

// Hash function names accepted by HasherByName.
const (
	HashMurmur3 = "murmur3"
	HashXXHash  = "xxhash"
)

// DefaultHash is the hash used when none is configured.
const DefaultHash = HashMurmur3

// Murmur3 hashes keys with 64-bit MurmurHash3 (seed 0).
func Murmur3(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}

// XXHash hashes keys with xxHash64.
func XXHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// HasherByName returns the built-in hasher registered under name.
// Names are matched case-insensitively; an empty name selects DefaultHash.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HashMurmur3:
		return Murmur3, nil
	case HashXXHash:
		return XXHash, nil
	default:
		return nil, fmt.Errorf("cmap: unknown hash %q (want %s or %s)", name, HashMurmur3, HashXXHash)
	}
}

// HashNames lists the names HasherByName accepts.
func HashNames() []string {
	return []string{HashMurmur3, HashXXHash}
}
