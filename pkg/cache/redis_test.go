package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, opts ...RedisOption) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCacheFromClient(client, opts...), mr
}

func TestRedisCache_Contract(t *testing.T) {
	c, _ := newTestRedis(t)
	runContract(t, c)
}

func TestRedisCache_Prefix(t *testing.T) {
	c, mr := newTestRedis(t, WithPrefix("test:"))
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))

	assert.True(t, mr.Exists("test:k"))
	assert.False(t, mr.Exists(DefaultRedisPrefix+"k"))
}

func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+"k"))

	mr.FastForward(2 * time.Minute)
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_ClearKeepsOtherPrefixes(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)
	require.NoError(t, mr.Set("other:key", "x"))
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))

	require.NoError(t, c.Clear(ctx))

	assert.False(t, mr.Exists(DefaultRedisPrefix+"a"))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr := newTestRedis(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}

func TestRedisCache_CloseBorrowedClient(t *testing.T) {
	c, _ := newTestRedis(t)
	require.NoError(t, c.Close())
	// The client belongs to the caller and stays usable.
	require.NoError(t, c.Ping(context.Background()))
}
