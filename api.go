package refcache

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Options configure a cache. The zero value is usable: a NotInitialized
// cache that never expires and does not log.
type Options struct {
	Name         string        // shows up in logs and hooks; "" => "refcache"
	TTL          time.Duration // <= 0 or Infinite => never expires
	InitialState State         // NotInitialized (default), Current or Error
	Logger       Logger        // if nil, NopLogger is used
	Hooks        Hooks         // if nil, NopHooks is used
	Clock        clock.Clock   // if nil, the wall clock
}

// MapOptions add the value comparison used by CachedMap.TryUpdate.
type MapOptions[V any] struct {
	Options

	// Equal compares a stored value with the expected one; nil => reflect.DeepEqual.
	Equal func(a, b V) bool
}

// Inspector is the read side shared by both cache shapes.
type Inspector interface {
	State() State
	IsCurrent() bool
	IsInvalid() bool
	IsNotInitialized() bool
	IsUpdating() bool
	IsExpired() bool
	Version() uint64
}

// CachedValue is a single versioned value kept up to date by a Producer.
type CachedValue[T any] interface {
	Inspector

	// Refresh returns the cached value while it is fresh, otherwise runs (or
	// joins) a single-flight refresh and commits its outcome. ReadOnly never
	// refreshes. err is non-nil only for invalid arguments.
	Refresh(ctx context.Context, producer Producer[T], policy Policy, timeout time.Duration) (Outcome[T], error)

	Snapshot() Snapshot[T]
	Clear()
}

// CachedMap is a versioned keyed collection with per-item mutation and a
// bulk refresh that swaps the whole map.
type CachedMap[K comparable, V any] interface {
	Inspector

	TryAdd(key K, value V) bool
	TryRemove(key K) (V, bool)
	TryGet(key K) (V, bool)
	Update(key K, value V) V
	TryUpdate(key K, newValue, expected V) bool
	FindFirst(match func(K, V) bool) (V, bool)
	Len() int
	Items() map[K]V
	Clear()

	Refresh(ctx context.Context, producer Producer[map[K]V], policy Policy, timeout time.Duration) (Outcome[map[K]V], error)
	RequestValue(ctx context.Context, producer Producer[map[K]V], key K, policy Policy, timeout time.Duration) (Outcome[V], error)

	Snapshot() Snapshot[map[K]V]
}

func NewValue[T any](opts Options) (CachedValue[T], error) {
	return newValue[T](opts)
}

func NewMap[K comparable, V any](opts MapOptions[V]) (CachedMap[K, V], error) {
	return newMap[K, V](opts)
}
