// Package sloghooks implements refcache.Hooks on top of log/slog.
package sloghooks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/refcache"
)

type Options struct {
	// Sampling to avoid floods on hot events; 0/1 = log all.
	JoinedEvery    uint64
	CommittedEvery uint64
	StaleEvery     uint64
	// Level for joined/committed events; nil = Debug.
	ChattyLevel slog.Leveler
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	joinedCtr    atomic.Uint64
	committedCtr atomic.Uint64
	staleCtr     atomic.Uint64
}

var _ refcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	if opts.ChattyLevel == nil {
		opts.ChattyLevel = slog.LevelDebug
	}
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) RefreshJoined(name string) {
	if h.l == nil || !sample(h.opts.JoinedEvery, &h.joinedCtr) {
		return
	}
	h.l.Log(context.Background(), h.opts.ChattyLevel.Level(), "refcache.refresh_joined", "cache", name)
}

func (h *Hooks) RefreshCommitted(name string, version uint64, took time.Duration) {
	if h.l == nil || !sample(h.opts.CommittedEvery, &h.committedCtr) {
		return
	}
	h.l.Log(context.Background(), h.opts.ChattyLevel.Level(), "refcache.refresh_committed",
		"cache", name,
		"version", version,
		"took", took)
}

func (h *Hooks) RefreshTimedOut(name string, timeout time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Warn("refcache.refresh_timed_out",
		"cache", name,
		"timeout", timeout)
}

func (h *Hooks) RefreshCanceled(name string) {
	if h.l == nil {
		return
	}
	h.l.Info("refcache.refresh_canceled", "cache", name)
}

func (h *Hooks) RefreshFailed(name string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("refcache.refresh_failed",
		"cache", name,
		"err", err)
}

func (h *Hooks) StaleServed(name string, version uint64) {
	if h.l == nil || !sample(h.opts.StaleEvery, &h.staleCtr) {
		return
	}
	h.l.Warn("refcache.stale_served",
		"cache", name,
		"version", version)
}

func (h *Hooks) ProducerAbandoned(name string, kind refcache.Kind) {
	if h.l == nil {
		return
	}
	h.l.Debug("refcache.producer_abandoned",
		"cache", name,
		"outcome", kind.String())
}
