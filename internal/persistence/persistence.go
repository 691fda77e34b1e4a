// Package persistence defines the durable key-value port the ledger is saved through,
// together with in-memory and file-backed media.
package persistence

import (
	"context"
	"errors"
)

// ErrCapacityExceeded is returned by Write when the medium has no room left
// for the value (quota exhausted, disk full).
var ErrCapacityExceeded = errors.New("storage capacity exceeded")

// Persistence is a durable key-value medium.
// Implementations must be safe for concurrent use.
type Persistence interface {
	// Read returns the value stored under key.
	// A missing key returns nil data and a nil error.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the value stored under key.
	// Capacity failures wrap ErrCapacityExceeded.
	Write(ctx context.Context, key string, data []byte) error
}

// Deleter is implemented by media that can drop a key to free room.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// IsCapacityExceeded reports whether err signals an exhausted medium.
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}
