package refcache

import (
	"context"
	"maps"
	"reflect"
	"time"
)

// cmap keeps the committed map inside the snapshot and never mutates a
// published map: every item change copies it. That keeps reads lock-free and
// untorn at the price of O(n) writes, which suits the small tables
// (rules, devices, outbox entries) this is used for.
type cmap[K comparable, V any] struct {
	*core[map[K]V]
	equal func(a, b V) bool
}

var _ CachedMap[string, int] = (*cmap[string, int])(nil)

func newMap[K comparable, V any](opts MapOptions[V]) (*cmap[K, V], error) {
	c, err := newCore[map[K]V](opts.Options, emptyMap[K, V], cloneMap[K, V])
	if err != nil {
		return nil, err
	}
	m := &cmap[K, V]{core: c, equal: opts.Equal}
	if m.equal == nil {
		m.equal = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
	return m, nil
}

func emptyMap[K comparable, V any]() map[K]V { return map[K]V{} }

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return maps.Clone(m)
}

func (m *cmap[K, V]) TryAdd(key K, value V) bool {
	return m.mutate(func(cur *snapshot[map[K]V]) *snapshot[map[K]V] {
		if _, ok := cur.value[key]; ok {
			return nil
		}
		next := maps.Clone(cur.value)
		next[key] = value
		return cur.with(next, cur.version+1)
	})
}

func (m *cmap[K, V]) TryRemove(key K) (V, bool) {
	var removed V
	ok := m.mutate(func(cur *snapshot[map[K]V]) *snapshot[map[K]V] {
		v, ok := cur.value[key]
		if !ok {
			return nil
		}
		removed = v
		next := maps.Clone(cur.value)
		delete(next, key)
		return cur.with(next, cur.version+1)
	})
	return removed, ok
}

func (m *cmap[K, V]) TryGet(key K) (V, bool) {
	v, ok := m.load().value[key]
	return v, ok
}

// Update upserts key. Replacing an existing entry counts as a remove plus an
// add, so the version moves by 2; inserting moves it by 1.
func (m *cmap[K, V]) Update(key K, value V) V {
	m.mutate(func(cur *snapshot[map[K]V]) *snapshot[map[K]V] {
		step := uint64(1)
		if _, ok := cur.value[key]; ok {
			step = 2
		}
		next := maps.Clone(cur.value)
		next[key] = value
		return cur.with(next, cur.version+step)
	})
	return value
}

// TryUpdate replaces key's value with newValue only if it currently equals
// expected.
func (m *cmap[K, V]) TryUpdate(key K, newValue, expected V) bool {
	return m.mutate(func(cur *snapshot[map[K]V]) *snapshot[map[K]V] {
		v, ok := cur.value[key]
		if !ok || !m.equal(v, expected) {
			return nil
		}
		next := maps.Clone(cur.value)
		next[key] = newValue
		return cur.with(next, cur.version+1)
	})
}

// FindFirst returns a value matching the predicate. Map order is unspecified,
// so with several matches any one of them may come back.
func (m *cmap[K, V]) FindFirst(match func(K, V) bool) (V, bool) {
	var zero V
	if match == nil {
		return zero, false
	}
	for k, v := range m.load().value {
		if match(k, v) {
			return v, true
		}
	}
	return zero, false
}

func (m *cmap[K, V]) Len() int { return len(m.load().value) }

// Items returns a copy of the committed map.
func (m *cmap[K, V]) Items() map[K]V { return maps.Clone(m.load().value) }

func (m *cmap[K, V]) Snapshot() Snapshot[map[K]V] {
	s := m.load().export()
	s.Value = maps.Clone(s.Value)
	return s
}

func (m *cmap[K, V]) Refresh(ctx context.Context, producer Producer[map[K]V], policy Policy, timeout time.Duration) (Outcome[map[K]V], error) {
	if err := validateCall(producer, timeout); err != nil {
		return Outcome[map[K]V]{}, err
	}
	s := m.load()
	if policy == ReadOnly || m.fresh(s) {
		return Success(maps.Clone(s.value)), nil
	}
	return Convert(m.refresh(ctx, producer, timeout, m.fresh), cloneMap[K, V]), nil
}

// RequestValue serves key from the committed map. On a miss, RefreshOnMiss
// runs exactly one bulk refresh and then reads the key again; any other
// policy reports the miss as Success(zero). The result is always Success: a
// refresh that fails, times out or is canceled leaves the previous map in
// place and the key is read from that.
func (m *cmap[K, V]) RequestValue(ctx context.Context, producer Producer[map[K]V], key K, policy Policy, timeout time.Duration) (Outcome[V], error) {
	if err := validateCall(producer, timeout); err != nil {
		return Outcome[V]{}, err
	}
	if v, ok := m.TryGet(key); ok {
		return Success(v), nil
	}
	if policy != RefreshOnMiss {
		var zero V
		return Success(zero), nil
	}

	out := m.refresh(ctx, producer, timeout, func(s *snapshot[map[K]V]) bool {
		_, ok := s.value[key]
		return ok
	})
	if !out.IsSuccess() {
		m.log.Debug("serving miss after unsuccessful refresh", Fields{"cache": m.name, "outcome": out.Kind().String()})
	}
	v, _ := m.TryGet(key)
	return Success(v), nil
}
