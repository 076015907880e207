package refcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// core is the state/version/refresh machinery shared by CachedValue and
// CachedMap. Readers load the snapshot pointer; writers (commit, clear, item
// mutations) serialize on mu and publish a new snapshot.
type core[T any] struct {
	name  string
	ttl   time.Duration
	clk   clock.Clock
	log   Logger
	hooks Hooks

	// empty is the value held by a NotInitialized snapshot.
	empty func() T
	// adopt takes a private copy of a produced value before commit.
	adopt func(T) T

	mu     sync.Mutex
	snap   atomic.Pointer[snapshot[T]]
	flight flight[T]
}

func newCore[T any](opts Options, empty func() T, adopt func(T) T) (*core[T], error) {
	switch opts.InitialState {
	case NotInitialized, Current, Error:
	default:
		return nil, &ArgumentError{
			Arg:    "initial state",
			Value:  opts.InitialState,
			Reason: "must be not_initialized, current or error",
		}
	}

	c := &core[T]{
		ttl:   opts.TTL,
		empty: empty,
		adopt: adopt,
	}
	c.name = coalesce(opts.Name, defaultName)
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.clk = coalesce[clock.Clock](opts.Clock, clock.New())

	s := &snapshot[T]{state: opts.InitialState, value: empty()}
	if s.state == Current {
		s.refreshedAt = c.clk.Now()
	}
	c.snap.Store(s)
	return c, nil
}

func (c *core[T]) load() *snapshot[T] { return c.snap.Load() }

// State reports UpdateInProgress while a refresh is in flight, the committed
// state otherwise.
func (c *core[T]) State() State {
	if c.flight.busy() {
		return UpdateInProgress
	}
	return c.load().state
}

func (c *core[T]) IsCurrent() bool { return c.State() == Current }

// IsInvalid reports NotInitialized or Error.
// It reads the committed state, so a cache whose first load is still in
// flight is invalid even though State reports UpdateInProgress.
func (c *core[T]) IsInvalid() bool {
	s := c.load().state
	return s == NotInitialized || s == Error
}

func (c *core[T]) IsNotInitialized() bool { return c.State() == NotInitialized }

func (c *core[T]) IsUpdating() bool { return c.flight.busy() }

func (c *core[T]) IsExpired() bool {
	if c.flight.busy() {
		return false
	}
	return c.load().expired(c.ttl, c.clk.Now())
}

func (c *core[T]) Version() uint64 { return c.load().version }

// Clear drops the committed value: NotInitialized, version+1. A refresh
// already in flight still commits when it finishes.
func (c *core[T]) Clear() {
	var version uint64
	c.mutate(func(cur *snapshot[T]) *snapshot[T] {
		version = cur.version + 1
		return &snapshot[T]{state: NotInitialized, version: version, value: c.empty()}
	})
	c.log.Debug("cache cleared", Fields{"cache": c.name, "version": version})
}

// fresh reports a Current snapshot whose TTL has not run out.
func (c *core[T]) fresh(s *snapshot[T]) bool {
	return s.state == Current && !s.expired(c.ttl, c.clk.Now())
}

// mutate applies fn to the committed snapshot under the writer lock and
// publishes its result. A nil result means no change.
func (c *core[T]) mutate(fn func(cur *snapshot[T]) *snapshot[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := fn(c.load())
	if next == nil {
		return false
	}
	c.snap.Store(next)
	return true
}

// refresh joins the in-flight refresh or starts one. Callers validate
// producer and timeout first.
//
// satisfied is checked again once the caller owns the ticket: another
// refresh may have committed between the caller's own check and acquire. If
// it holds, the ticket settles with the committed value and the producer is
// not run. nil means always run.
func (c *core[T]) refresh(ctx context.Context, producer Producer[T], timeout time.Duration, satisfied func(*snapshot[T]) bool) (out Outcome[T]) {
	if ctx == nil {
		ctx = context.Background()
	}

	t, owner := c.flight.acquire()
	if !owner {
		c.hooks.RefreshJoined(c.name)
		c.log.Debug("refresh joined", Fields{"cache": c.name})
		out = t.wait(ctx, c.clk, timeout)
		if !out.IsSuccess() && !out.IsFailed() {
			c.log.Debug("gave up waiting on shared refresh", Fields{"cache": c.name, "outcome": out.Kind().String()})
		}
		return out
	}

	// settle the ticket even if commit panics, or followers would hang
	out = Canceled[T]()
	defer func() { c.flight.release(t, out) }()

	if s := c.load(); satisfied != nil && satisfied(s) {
		c.log.Debug("refresh skipped; committed meanwhile", Fields{"cache": c.name, "version": s.version})
		out = Success(s.value)
		return out
	}

	start := c.clk.Now()
	c.log.Debug("refresh started", Fields{"cache": c.name, "timeout": timeout})

	res, err := execute(ctx, c.clk, producer, timeout, c.abandoned)
	if err != nil {
		res = Failed[T](err)
	}
	out = c.commit(res, timeout, c.clk.Since(start))
	return out
}

// commit applies the state transition for a settled refresh. A successful
// outcome is returned carrying the value that was actually committed.
func (c *core[T]) commit(out Outcome[T], timeout, took time.Duration) Outcome[T] {
	c.mu.Lock()
	cur := c.load()
	prev := cur.state
	var version uint64
	switch {
	case out.IsSuccess():
		v := out.Value()
		if c.adopt != nil {
			v = c.adopt(v)
		}
		version = cur.version + 1
		c.snap.Store(&snapshot[T]{state: Current, version: version, value: v, refreshedAt: c.clk.Now()})
		out = Success(v)
	case out.IsFailed() && cur.state == NotInitialized:
		c.snap.Store(&snapshot[T]{state: Error, version: cur.version, value: cur.value, refreshedAt: cur.refreshedAt})
	}
	c.mu.Unlock()

	f := Fields{"cache": c.name, "took": took}
	switch out.Kind() {
	case KindSuccess:
		f["version"] = version
		c.hooks.RefreshCommitted(c.name, version, took)
		c.log.Debug("refresh committed", f)
		return out
	case KindFailed:
		f["err"] = out.Error()
		c.hooks.RefreshFailed(c.name, out.Error())
		c.log.Warn("refresh failed", f)
	case KindTimedOut:
		f["timeout"] = timeout
		c.hooks.RefreshTimedOut(c.name, timeout)
		c.log.Warn("refresh timed out; producer abandoned", f)
	case KindCanceled:
		c.hooks.RefreshCanceled(c.name)
		c.log.Warn("refresh canceled; producer abandoned", f)
	}

	if prev == Current {
		c.hooks.StaleServed(c.name, cur.version)
		c.log.Info("serving stale value", Fields{"cache": c.name, "version": cur.version})
	}
	return out
}

func (c *core[T]) abandoned(out Outcome[T]) {
	c.hooks.ProducerAbandoned(c.name, out.Kind())
	c.log.Debug("abandoned producer finished", Fields{"cache": c.name, "outcome": out.Kind().String()})
}
