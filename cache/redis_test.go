package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// setupTestRedis creates a miniredis server and a RedisCache pointing at it
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, "orderdesk"), mr
}

func TestRedisCacheSetGet(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	want := []lookup{{ID: 1, Name: "Cash"}, {ID: 2, Name: "bKash"}}
	require.NoError(t, c.Set(ctx, "payment-methods", want, time.Minute))
	assert.True(t, mr.Exists("orderdesk:payment-methods"))

	var got []lookup
	require.NoError(t, c.Get(ctx, "payment-methods", &got))
	assert.Equal(t, want, got)
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	var got []lookup
	err := c.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheExpiry(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", lookup{ID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got lookup
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestRedisCacheDelete(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", lookup{ID: 1}, time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var got lookup
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestRedisCacheServerDown(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	var got lookup
	err := c.Get(context.Background(), "k", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
