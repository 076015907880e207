// Package asynchook moves hook delivery off the refresh path: events are
// queued to a bounded channel drained by worker goroutines and dropped when
// the queue is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    JoinedEvery: 10, // sample: ~every 10th joined refresh
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	rules, _ := refcache.NewMap[string, Rule](refcache.MapOptions[Rule]{
//	    Options: refcache.Options{Name: "fw-rules", TTL: time.Minute, Hooks: hooks},
//	})
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/refcache"
)

type Hooks struct {
	inner   refcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ refcache.Hooks = (*Hooks)(nil)

func New(inner refcache.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = refcache.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events, drains the queue and waits for the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded on a full or closed queue.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) RefreshJoined(n string) { h.try(func() { h.inner.RefreshJoined(n) }) }
func (h *Hooks) RefreshCanceled(n string) {
	h.try(func() { h.inner.RefreshCanceled(n) })
}
func (h *Hooks) RefreshCommitted(n string, v uint64, took time.Duration) {
	h.try(func() { h.inner.RefreshCommitted(n, v, took) })
}
func (h *Hooks) RefreshTimedOut(n string, d time.Duration) {
	h.try(func() { h.inner.RefreshTimedOut(n, d) })
}
func (h *Hooks) RefreshFailed(n string, err error) {
	h.try(func() { h.inner.RefreshFailed(n, err) })
}
func (h *Hooks) StaleServed(n string, v uint64) { h.try(func() { h.inner.StaleServed(n, v) }) }
func (h *Hooks) ProducerAbandoned(n string, k refcache.Kind) {
	h.try(func() { h.inner.ProducerAbandoned(n, k) })
}
