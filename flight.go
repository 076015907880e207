package refcache

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ticket is one in-flight refresh. out is written once, before done closes.
type ticket[T any] struct {
	done chan struct{}
	out  Outcome[T]
}

// flight holds at most one ticket per cache. mu guards install and clear
// only; nobody waits while holding it.
type flight[T any] struct {
	mu  sync.Mutex
	cur *ticket[T]
}

// acquire returns the in-flight ticket, or installs a new one and reports
// the caller as its owner.
func (f *flight[T]) acquire() (t *ticket[T], owner bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cur != nil {
		return f.cur, false
	}
	f.cur = &ticket[T]{done: make(chan struct{})}
	return f.cur, true
}

// release settles t with out, clears it and wakes every waiter.
func (f *flight[T]) release(t *ticket[T], out Outcome[T]) {
	t.out = out
	f.mu.Lock()
	if f.cur == t {
		f.cur = nil
	}
	f.mu.Unlock()
	close(t.done)
}

func (f *flight[T]) busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur != nil
}

// wait blocks until t settles or the follower's own budget runs out. Giving
// up here does not touch the owner's execution.
func (t *ticket[T]) wait(ctx context.Context, clk clock.Clock, timeout time.Duration) Outcome[T] {
	select {
	case <-t.done:
		return t.out
	default:
	}
	if ctx.Err() != nil {
		return Canceled[T]()
	}

	timer := clk.Timer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		return t.out
	case <-timer.C:
	case <-ctx.Done():
	}

	// settled in the same instant: prefer the shared result
	select {
	case <-t.done:
		return t.out
	default:
	}
	if ctx.Err() != nil {
		return Canceled[T]()
	}
	return TimedOut[T]()
}
