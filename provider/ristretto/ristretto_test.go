package ristretto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestProviderSyncSetIsVisible(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64, Sync: true})
	require.NoError(t, err)
	defer p.Close(ctx)

	ok, err := p.Set(ctx, "k", []byte("doc"), 3, 0)
	require.NoError(t, err)
	require.True(t, ok)

	b, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("doc"), b)

	require.NoError(t, p.Del(ctx, "k"))
	_, ok, _ = p.Get(ctx, "k")
	assert.False(t, ok)
}
