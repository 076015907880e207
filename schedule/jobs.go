package schedule

import (
	"context"
	"time"

	"github.com/unkn0wn-root/refcache"
)

// ValueJob refreshes a CachedValue. A fresh value is left alone, so pick a
// TTL no longer than the schedule interval to refresh on every tick.
type ValueJob[T any] struct {
	JobName  string
	Cache    refcache.CachedValue[T]
	Producer refcache.Producer[T]
	Timeout  time.Duration
}

func (j ValueJob[T]) Name() string { return j.JobName }

// Run returns nil for Success, ErrTimedOut/ErrCanceled or the producer's
// error otherwise.
func (j ValueJob[T]) Run(ctx context.Context) error {
	out, err := j.Cache.Refresh(ctx, j.Producer, refcache.ServeCurrentOnly, j.Timeout)
	if err != nil {
		return err
	}
	return out.Err()
}

// MapJob refreshes a CachedMap in bulk.
type MapJob[K comparable, V any] struct {
	JobName  string
	Cache    refcache.CachedMap[K, V]
	Producer refcache.Producer[map[K]V]
	Timeout  time.Duration
}

func (j MapJob[K, V]) Name() string { return j.JobName }

func (j MapJob[K, V]) Run(ctx context.Context) error {
	out, err := j.Cache.Refresh(ctx, j.Producer, refcache.ServeCurrentOnly, j.Timeout)
	if err != nil {
		return err
	}
	return out.Err()
}

// Func adapts a function to Job.
type Func struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (f Func) Name() string                  { return f.JobName }
func (f Func) Run(ctx context.Context) error { return f.Fn(ctx) }
