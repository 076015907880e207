// Package redis keeps source documents in Redis so every replica reads the
// same last-mirrored snapshot.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/refcache/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Redis implements provider.Provider with plain GET/SET/DEL. Cost is ignored.
type Redis struct {
	rdb   goredis.UniversalClient
	owned bool
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	// Client may be a single node, sentinel or cluster client.
	Client goredis.UniversalClient
	// CloseClient hands the client's lifetime to the provider.
	CloseClient bool
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, owned: cfg.CloseClient}, nil
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set writes with an expiry of ttl. ttl <= 0 stores without expiry; negative
// values are clamped because go-redis reads -1 as KEEPTTL.
func (p *Redis) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	ttl = max(ttl, 0)
	if err := p.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

// Close closes an owned client; a borrowed one is left to its owner.
func (p *Redis) Close(context.Context) error {
	if !p.owned {
		return nil
	}
	err := p.rdb.Close()
	if errors.Is(err, goredis.ErrClosed) {
		return nil
	}
	return err
}
