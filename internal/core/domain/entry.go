// Package domain defines the core domain models for shardkv.
package domain

import (
	"fmt"
	"unicode/utf8"
)

// Default boundary limits.
const (
	DefaultMaxKeyBytes   = 1024
	DefaultMaxValueBytes = 1 << 20
)

// Entry is a single key-value pair.
type Entry struct {
	Key   string
	Value []byte
}

// PutOutcome tells whether a put created a new entry or replaced one.
type PutOutcome int

const (
	// PutInserted means the key was absent before the put.
	PutInserted PutOutcome = iota + 1
	// PutUpdated means an existing value was overwritten.
	PutUpdated
)

// String returns the outcome name used in responses and metrics.
func (o PutOutcome) String() string {
	switch o {
	case PutInserted:
		return "inserted"
	case PutUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Limits bounds the size of keys and values accepted at the boundary.
// Zero disables the corresponding check.
type Limits struct {
	MaxKeyBytes   int
	MaxValueBytes int
}

// DefaultLimits returns the default boundary limits.
func DefaultLimits() Limits {
	return Limits{
		MaxKeyBytes:   DefaultMaxKeyBytes,
		MaxValueBytes: DefaultMaxValueBytes,
	}
}

// ValidateKey checks that key is non-empty and within maxBytes.
func ValidateKey(key string, maxBytes int) error {
	if key == "" {
		return ErrKeyRequired
	}
	if maxBytes > 0 && len(key) > maxBytes {
		return ErrKeyTooLong.WithDetails(fmt.Sprintf("%d bytes exceeds limit %d", len(key), maxBytes))
	}
	return nil
}

// ValidateValue checks that value is within maxBytes. Empty values are allowed.
func ValidateValue(value []byte, maxBytes int) error {
	if maxBytes > 0 && len(value) > maxBytes {
		return ErrValueTooLarge.WithDetails(fmt.Sprintf("%d bytes exceeds limit %d", len(value), maxBytes))
	}
	return nil
}

// IsText reports whether b is valid UTF-8 and can be carried in a JSON string.
func IsText(b []byte) bool {
	return utf8.Valid(b)
}
