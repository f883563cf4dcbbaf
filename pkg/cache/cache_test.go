package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache("caisse").(*memoryCache)
	c.now = func() time.Time { return now }

	key := c.GenerateKey("invoice", "abc")
	assert.Equal(t, "caisse:invoice:abc", key)

	require.NoError(t, c.Set(ctx, key, "JVBERi0=", time.Minute))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "JVBERi0=", got)

	now = now.Add(2 * time.Minute)
	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache("caisse")

	require.NoError(t, c.Set(ctx, "k", 42, 0))
	got, _ := c.Get(ctx, "k")
	assert.Equal(t, "42", got)

	require.NoError(t, c.Delete(ctx, "k"))
	got, _ = c.Get(ctx, "k")
	assert.Empty(t, got)
}

func TestNoopCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNoopCache("caisse")

	require.NoError(t, c.Set(ctx, "k", "v", time.Hour))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, Ping(ctx, c))
}
