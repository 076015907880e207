package refcache

import "time"

const (
	defaultName = "refcache"

	// Infinite disables TTL expiry. Any TTL <= 0 behaves the same way.
	Infinite time.Duration = -1
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
