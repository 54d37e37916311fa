// internal/common/cache/cache_test.go
package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fairpay/internal/common/config"
	"fairpay/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
}

// ==========================
// Memory
// ==========================

func TestMemoryCache_GetSet(t *testing.T) {
	c, err := NewMemoryCache(2, 0)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	require.NoError(t, c.Set(ctx, "c", []byte("3")))

	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry is evicted")

	v, ok, err := c.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), v)
	assert.Equal(t, 2, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, err := NewMemoryCache(8, time.Minute)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestNewMemoryCache_InvalidSize(t *testing.T) {
	_, err := NewMemoryCache(0, 0)
	assert.Error(t, err)
}

// ==========================
// Redis
// ==========================

func TestRedisCache_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	c := NewRedisCache(rdb, "fairpay:", 10*time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "fp:comparisons")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "fp:comparisons", []byte(`{"rank":1}`)))
	assert.True(t, mr.Exists("fairpay:fp:comparisons"))
	assert.Equal(t, 10*time.Minute, mr.TTL("fairpay:fp:comparisons"))

	v, ok, err := c.Get(ctx, "fp:comparisons")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"rank":1}`, string(v))
}

func TestRedisCache_Error(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewRedisCache(rdb, "p:", time.Minute)

	mock.ExpectGet("p:k").SetErr(fmt.Errorf("connection refused"))
	_, ok, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Fetch
// ==========================

func TestFetch_ReadThrough(t *testing.T) {
	c, err := NewMemoryCache(8, 0)
	require.NoError(t, err)
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	calls := 0
	load := func() (payload, error) {
		calls++
		return payload{Rank: 2, Label: "Top 10%"}, nil
	}

	first, err := Fetch(ctx, c, log, "k", load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, log, "k", load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestFetch_LoadErrorNotCached(t *testing.T) {
	c, err := NewMemoryCache(8, 0)
	require.NoError(t, err)

	_, err = Fetch(context.Background(), c, nil, "k", func() (payload, error) {
		return payload{}, fmt.Errorf("boom")
	})
	assert.Error(t, err)
	assert.Zero(t, c.Len())
}

func TestFetch_CacheFailureFallsThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewRedisCache(rdb, "", time.Minute)

	mock.ExpectGet("k").SetErr(fmt.Errorf("timeout"))
	mock.ExpectSet("k", []byte(`{"rank":1,"label":""}`), time.Minute).SetErr(fmt.Errorf("timeout"))

	v, err := Fetch(context.Background(), c, logger.NewTestLogger(t), "k", func() (payload, error) {
		return payload{Rank: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew(t *testing.T) {
	c, err := New(config.CacheConfig{Driver: config.CacheDriverNone}, nil)
	require.NoError(t, err)
	assert.Equal(t, "none", c.Name())

	c, err = New(config.CacheConfig{Driver: config.CacheDriverMemory, Size: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Name())

	_, err = New(config.CacheConfig{Driver: config.CacheDriverRedis}, nil)
	assert.Error(t, err)

	_, err = New(config.CacheConfig{Driver: "memcached"}, nil)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "abc123:comparisons:software-engineer:DE", Key("abc123", "comparisons", "software-engineer", "DE"))
}
