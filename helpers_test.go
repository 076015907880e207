package refcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recHooks counts hook calls; safe for concurrent use.
type recHooks struct {
	joined    atomic.Int32
	committed atomic.Int32
	timedOut  atomic.Int32
	canceled  atomic.Int32
	failed    atomic.Int32
	stale     atomic.Int32

	mu        sync.Mutex
	abandoned []Kind
}

var _ Hooks = (*recHooks)(nil)

func (h *recHooks) RefreshJoined(string)                          { h.joined.Add(1) }
func (h *recHooks) RefreshCommitted(string, uint64, time.Duration) { h.committed.Add(1) }
func (h *recHooks) RefreshTimedOut(string, time.Duration)          { h.timedOut.Add(1) }
func (h *recHooks) RefreshCanceled(string)                         { h.canceled.Add(1) }
func (h *recHooks) RefreshFailed(string, error)                    { h.failed.Add(1) }
func (h *recHooks) StaleServed(string, uint64)                     { h.stale.Add(1) }
func (h *recHooks) ProducerAbandoned(_ string, k Kind) {
	h.mu.Lock()
	h.abandoned = append(h.abandoned, k)
	h.mu.Unlock()
}

func (h *recHooks) abandonedKinds() []Kind {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Kind(nil), h.abandoned...)
}

// gate is a producer that blocks until released and counts its calls.
type gate[T any] struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
	value   T
	err     error
}

func newGate[T any](v T, err error) *gate[T] {
	return &gate[T]{
		started: make(chan struct{}, 64),
		release: make(chan struct{}),
		value:   v,
		err:     err,
	}
}

func (g *gate[T]) produce(context.Context) (T, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	<-g.release
	return g.value, g.err
}

func (g *gate[T]) open() { g.once.Do(func() { close(g.release) }) }

// counting returns a producer yielding v and the number of times it ran.
func counting[T any](v T, err error) (Producer[T], *atomic.Int32) {
	var n atomic.Int32
	return func(context.Context) (T, error) {
		n.Add(1)
		return v, err
	}, &n
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestValue[T any](t *testing.T, optsOpt func(*Options)) *value[T] {
	t.Helper()
	opts := Options{Name: "test", TTL: 30 * time.Second}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	v, err := newValue[T](opts)
	if err != nil {
		t.Fatalf("newValue: %v", err)
	}
	return v
}

func newTestMap(t *testing.T, optsOpt func(*MapOptions[string])) *cmap[string, string] {
	t.Helper()
	opts := MapOptions[string]{Options: Options{Name: "test", TTL: 30 * time.Second}}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	m, err := newMap[string, string](opts)
	if err != nil {
		t.Fatalf("newMap: %v", err)
	}
	return m
}
