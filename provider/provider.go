// Package provider defines the byte stores that back refcache's source
// package: a place to persist a committed snapshot and load it again, for
// example on another replica or after a restart.
//
// Implementations MUST be byte-for-byte transparent: Get returns exactly the
// []byte previously passed to Set for the key.
//
// The keyspaces "single:<ns>:" and "bulk:<ns>:" belong to source.Store.
// Foreign writes under them fail frame validation and are deleted.
package provider

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by providers that track their own lifecycle.
var ErrClosed = errors.New("provider: closed")

// Provider is a minimal byte store with TTLs, safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (<= 0: no expiry where supported).
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
