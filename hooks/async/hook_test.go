package asynchook

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/refcache"
)

type recorder struct {
	refcache.NopHooks
	mu     sync.Mutex
	events []string
	block  chan struct{}
}

func (r *recorder) add(e string) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) RefreshCommitted(n string, _ uint64, _ time.Duration) { r.add("committed:" + n) }
func (r *recorder) RefreshFailed(n string, _ error)                       { r.add("failed:" + n) }
func (r *recorder) ProducerAbandoned(n string, k refcache.Kind)           { r.add("abandoned:" + k.String()) }

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestDeliversInOrderWithOneWorker(t *testing.T) {
	rec := &recorder{}
	h := New(rec, 1, 16)

	h.RefreshCommitted("a", 1, 0)
	h.RefreshFailed("a", errors.New("boom"))
	h.ProducerAbandoned("a", refcache.KindTimedOut)
	h.Close()

	assert.Equal(t, []string{"committed:a", "failed:a", "abandoned:timed_out"}, rec.snapshot())
	assert.Zero(t, h.Dropped())
}

func TestDropsWhenFull(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	h := New(rec, 1, 1)

	// the worker takes the first event and blocks on it; the queue then
	// holds one more, the rest are dropped
	h.RefreshCommitted("a", 1, 0)
	require.Eventually(t, func() bool { return len(h.q) == 0 }, time.Second, time.Millisecond)
	h.RefreshCommitted("b", 1, 0)
	h.RefreshCommitted("c", 1, 0)
	h.RefreshCommitted("d", 1, 0)
	assert.Equal(t, uint64(2), h.Dropped())

	close(rec.block)
	h.Close()
	assert.Equal(t, []string{"committed:a", "committed:b"}, rec.snapshot())
}

func TestAfterCloseDrops(t *testing.T) {
	h := New(nil, 0, 0)
	h.Close()
	h.Close()
	assert.NotPanics(t, func() { h.StaleServed("a", 1) })
	assert.Equal(t, uint64(1), h.Dropped())
}
