package refcache

import (
	"context"
	"time"
)

type value[T any] struct {
	*core[T]
}

var _ CachedValue[int] = (*value[int])(nil)

func newValue[T any](opts Options) (*value[T], error) {
	c, err := newCore[T](opts, zeroOf[T], nil)
	if err != nil {
		return nil, err
	}
	return &value[T]{core: c}, nil
}

func (v *value[T]) Refresh(ctx context.Context, producer Producer[T], policy Policy, timeout time.Duration) (Outcome[T], error) {
	if err := validateCall(producer, timeout); err != nil {
		return Outcome[T]{}, err
	}
	s := v.load()
	if policy == ReadOnly || v.fresh(s) {
		return Success(s.value), nil
	}
	return v.refresh(ctx, producer, timeout, v.fresh), nil
}

func (v *value[T]) Snapshot() Snapshot[T] { return v.load().export() }

func zeroOf[T any]() T {
	var zero T
	return zero
}
