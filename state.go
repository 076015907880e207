package refcache

import (
	"fmt"
	"time"
)

// State is the lifecycle position of a cache. Exactly one holds at a time.
type State uint8

const (
	NotInitialized State = iota
	Current
	UpdateInProgress
	Error
)

func (s State) String() string {
	switch s {
	case NotInitialized:
		return "not_initialized"
	case Current:
		return "current"
	case UpdateInProgress:
		return "update_in_progress"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Policy tells a lookup whether it may trigger a refresh.
type Policy uint8

const (
	// ServeCurrentOnly uses the cached value while fresh, otherwise refreshes
	// and waits.
	ServeCurrentOnly Policy = iota
	// ReadOnly returns whatever is committed and never refreshes.
	ReadOnly
	// RefreshOnMiss (keyed lookups) runs one bulk refresh when the key is
	// absent, then reads the key again. Elsewhere it acts as ServeCurrentOnly.
	RefreshOnMiss
)

func (p Policy) String() string {
	switch p {
	case ServeCurrentOnly:
		return "serve_current_only"
	case ReadOnly:
		return "read_only"
	case RefreshOnMiss:
		return "refresh_on_miss"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// Snapshot is a consistent copy of a cache's committed fields.
type Snapshot[T any] struct {
	State       State
	Version     uint64
	Value       T
	RefreshedAt time.Time
}

// snapshot is immutable once published; every commit swaps in a new one.
// state is never UpdateInProgress here: that is derived from the flight.
type snapshot[T any] struct {
	state       State
	version     uint64
	value       T
	refreshedAt time.Time
}

// with returns a copy holding value at version, keeping state and timestamp.
func (s *snapshot[T]) with(value T, version uint64) *snapshot[T] {
	return &snapshot[T]{
		state:       s.state,
		version:     version,
		value:       value,
		refreshedAt: s.refreshedAt,
	}
}

// expired reports TTL staleness of a Current snapshot. ttl <= 0 never expires.
func (s *snapshot[T]) expired(ttl time.Duration, now time.Time) bool {
	if s.state != Current || ttl <= 0 {
		return false
	}
	return now.Sub(s.refreshedAt) >= ttl
}

func (s *snapshot[T]) export() Snapshot[T] {
	return Snapshot[T]{
		State:       s.state,
		Version:     s.version,
		Value:       s.value,
		RefreshedAt: s.refreshedAt,
	}
}
