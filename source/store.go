// Package source persists refcache snapshots in a provider and reads them
// back as producers, so a cache can be seeded from a shared store (Redis,
// an in-process byte cache) instead of rebuilding from scratch.
//
// Single values live under "single:<ns>:<key>", whole maps under
// "bulk:<ns>:<key>". Every document carries the version it was committed at.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/unkn0wn-root/refcache"
	"github.com/unkn0wn-root/refcache/codec"
	"github.com/unkn0wn-root/refcache/internal/wire"
	"github.com/unkn0wn-root/refcache/provider"
)

var (
	// ErrNotFound is what a producer returns when its document is missing.
	ErrNotFound = errors.New("source: document not found")

	// ErrRejected means the provider refused the write under pressure.
	ErrRejected = errors.New("source: write rejected by provider")

	// ErrNotCurrent is returned by Mirror when the cache holds nothing committed.
	ErrNotCurrent = errors.New("source: cache is not current")
)

// Entry is a decoded document.
type Entry[V any] struct {
	Value     V
	Version   uint64
	WrittenAt time.Time
}

type Config[V any] struct {
	Namespace string // required; no ':' allowed
	Provider  provider.Provider
	Codec     codec.Codec[V] // nil => codec.JSON[V]
	TTL       time.Duration  // passed to Provider.Set; <= 0 => no expiry
	Logger    refcache.Logger
	Clock     clock.Clock
}

// Store reads and writes framed documents of V in one namespace.
type Store[V any] struct {
	ns    string
	p     provider.Provider
	codec codec.Codec[V]
	ttl   time.Duration
	log   refcache.Logger
	clk   clock.Clock
}

func New[V any](cfg Config[V]) (*Store[V], error) {
	if cfg.Namespace == "" || strings.Contains(cfg.Namespace, ":") {
		return nil, &refcache.ArgumentError{Arg: "namespace", Value: cfg.Namespace, Reason: "must be non-empty and contain no ':'"}
	}
	if cfg.Provider == nil {
		return nil, &refcache.ArgumentError{Arg: "provider", Reason: "must not be nil"}
	}
	s := &Store[V]{
		ns:    cfg.Namespace,
		p:     cfg.Provider,
		codec: cfg.Codec,
		ttl:   cfg.TTL,
		log:   cfg.Logger,
		clk:   cfg.Clock,
	}
	if s.codec == nil {
		s.codec = codec.JSON[V]{}
	}
	if s.log == nil {
		s.log = refcache.NopLogger{}
	}
	if s.clk == nil {
		s.clk = clock.New()
	}
	return s, nil
}

func (s *Store[V]) singleKey(key string) string { return "single:" + s.ns + ":" + key }
func (s *Store[V]) bulkKey(key string) string   { return "bulk:" + s.ns + ":" + key }

func (s *Store[V]) header(version uint64) wire.Header {
	return wire.Header{Version: version, Stamp: s.clk.Now().UnixNano()}
}

func (s *Store[V]) set(ctx context.Context, sk string, frame []byte) error {
	ok, err := s.p.Set(ctx, sk, frame, int64(len(frame)), s.ttl)
	if err != nil {
		return fmt.Errorf("source: set %s: %w", sk, err)
	}
	if !ok {
		s.log.Warn("provider rejected write", refcache.Fields{"key": sk, "bytes": len(frame)})
		return ErrRejected
	}
	return nil
}

// load returns the raw frame, or ok=false on a miss.
func (s *Store[V]) load(ctx context.Context, sk string) ([]byte, bool, error) {
	b, ok, err := s.p.Get(ctx, sk)
	if err != nil {
		return nil, false, fmt.Errorf("source: get %s: %w", sk, err)
	}
	return b, ok, nil
}

// heal drops a document that failed frame validation; it reads as a miss.
func (s *Store[V]) heal(ctx context.Context, sk string, cause error) {
	s.log.Warn("dropping corrupt document", refcache.Fields{"key": sk, "err": cause})
	if err := s.p.Del(ctx, sk); err != nil {
		s.log.Warn("delete corrupt document failed", refcache.Fields{"key": sk, "err": err})
	}
}

// Put writes v under key tagged with version.
func (s *Store[V]) Put(ctx context.Context, key string, v V, version uint64) error {
	payload, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	return s.set(ctx, s.singleKey(key), wire.EncodeSingle(s.header(version), payload))
}

// Get reads a single document. A corrupt frame is deleted and reported as a
// miss; a payload the codec cannot decode is an error.
func (s *Store[V]) Get(ctx context.Context, key string) (Entry[V], bool, error) {
	sk := s.singleKey(key)
	b, ok, err := s.load(ctx, sk)
	if err != nil || !ok {
		return Entry[V]{}, false, err
	}
	h, payload, err := wire.DecodeSingle(b)
	if err != nil {
		s.heal(ctx, sk, err)
		return Entry[V]{}, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return Entry[V]{}, false, fmt.Errorf("source: decode %s: %w", sk, err)
	}
	return Entry[V]{Value: v, Version: h.Version, WrittenAt: time.Unix(0, h.Stamp)}, true, nil
}

// PutAll writes a whole map as one bulk document.
func (s *Store[V]) PutAll(ctx context.Context, key string, m map[string]V, version uint64) error {
	items := make([]wire.Item, 0, len(m))
	for k, v := range m {
		payload, err := s.codec.Encode(v)
		if err != nil {
			return fmt.Errorf("source: encode item %q: %w", k, err)
		}
		items = append(items, wire.Item{Key: k, Payload: payload})
	}
	frame, err := wire.EncodeBulk(s.header(version), items)
	if err != nil {
		return err
	}
	return s.set(ctx, s.bulkKey(key), frame)
}

// GetAll reads a bulk document. Items the codec cannot decode are left out
// of the returned map and reported together in err; ok stays true.
func (s *Store[V]) GetAll(ctx context.Context, key string) (Entry[map[string]V], bool, error) {
	sk := s.bulkKey(key)
	b, ok, err := s.load(ctx, sk)
	if err != nil || !ok {
		return Entry[map[string]V]{}, false, err
	}
	h, items, err := wire.DecodeBulk(b)
	if err != nil {
		s.heal(ctx, sk, err)
		return Entry[map[string]V]{}, false, nil
	}

	m := make(map[string]V, len(items))
	var errs error
	for _, it := range items {
		v, err := s.codec.Decode(it.Payload)
		if err != nil {
			errs = appendItemErr(errs, it.Key, err)
			continue
		}
		m[it.Key] = v
	}
	e := Entry[map[string]V]{Value: m, Version: h.Version, WrittenAt: time.Unix(0, h.Stamp)}
	return e, true, errs
}

// Del removes both the single and the bulk document for key.
func (s *Store[V]) Del(ctx context.Context, key string) error {
	var errs error
	for _, sk := range []string{s.singleKey(key), s.bulkKey(key)} {
		if err := s.p.Del(ctx, sk); err != nil {
			errs = appendErr(errs, fmt.Errorf("source: del %s: %w", sk, err))
		}
	}
	return errs
}
