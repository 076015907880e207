package source

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/refcache"
)

// Value returns a producer that loads the single document under key.
// A missing document fails with ErrNotFound.
func (s *Store[V]) Value(key string) refcache.Producer[V] {
	return func(ctx context.Context) (V, error) {
		e, ok, err := s.Get(ctx, key)
		if err != nil {
			var zero V
			return zero, err
		}
		if !ok {
			var zero V
			return zero, fmt.Errorf("%w: %s", ErrNotFound, s.singleKey(key))
		}
		return e.Value, nil
	}
}

// Map returns a producer that loads the bulk document under key. Any item
// that fails to decode fails the whole load, so the cache keeps its
// previous map instead of committing a partial one.
func (s *Store[V]) Map(key string) refcache.Producer[map[string]V] {
	return func(ctx context.Context) (map[string]V, error) {
		e, ok, err := s.GetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.bulkKey(key))
		}
		return e.Value, nil
	}
}

// Mirror writes the committed value of c to s under key, tagged with the
// cache version. Nothing is written unless c is Current.
func Mirror[V any](ctx context.Context, s *Store[V], key string, c refcache.CachedValue[V]) error {
	snap := c.Snapshot()
	if snap.State != refcache.Current {
		return fmt.Errorf("%w: %s", ErrNotCurrent, snap.State)
	}
	return s.Put(ctx, key, snap.Value, snap.Version)
}

// MirrorMap is Mirror for a CachedMap, written as one bulk document.
func MirrorMap[V any](ctx context.Context, s *Store[V], key string, c refcache.CachedMap[string, V]) error {
	snap := c.Snapshot()
	if snap.State != refcache.Current {
		return fmt.Errorf("%w: %s", ErrNotCurrent, snap.State)
	}
	return s.PutAll(ctx, key, snap.Value, snap.Version)
}
