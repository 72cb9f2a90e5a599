package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Total  int64   `json:"total"`
	Amount float64 `json:"amount"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, ttl), mr
}

func TestCacheRoundtrip(t *testing.T) {
	c, _ := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	var out stats
	require.False(t, c.GetJSON(ctx, "stats:x", &out), "cold cache must miss")

	c.SetJSON(ctx, "stats:x", stats{Total: 7, Amount: 1250.50})

	require.True(t, c.GetJSON(ctx, "stats:x", &out))
	require.Equal(t, int64(7), out.Total)
	require.Equal(t, 1250.50, out.Amount)
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	c.SetJSON(ctx, "stats:x", stats{Total: 1})
	mr.FastForward(31 * time.Second)

	var out stats
	require.False(t, c.GetJSON(ctx, "stats:x", &out))
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.SetJSON(ctx, "stats:a", stats{Total: 1})
	c.SetJSON(ctx, "stats:b", stats{Total: 2})
	c.Invalidate(ctx, "stats:a")

	var out stats
	require.False(t, c.GetJSON(ctx, "stats:a", &out))
	require.True(t, c.GetJSON(ctx, "stats:b", &out))
}

func TestCacheCorruptValueMisses(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("stats:bad", "{not json"))

	var out stats
	require.False(t, c.GetJSON(context.Background(), "stats:bad", &out))
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out stats
	require.False(t, c.GetJSON(ctx, "k", &out))
	c.SetJSON(ctx, "k", stats{})
	c.Invalidate(ctx, "k")
}
