package cachestore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/apix/internal/domain"
)

func newTestRedisStore(t *testing.T, compress bool) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), compress)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	for _, compress := range []bool{false, true} {
		s, mr := newTestRedisStore(t, compress)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, sampleEntry("redis-k", time.Now())))
		got, ok, err := s.Get(ctx, "redis-k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "getRepo", got.Metadata.Endpoint)
		assert.Equal(t, map[string]any{"name": "hello", "stars": 3.0}, got.Value)

		assert.Equal(t, 60*time.Second, mr.TTL(redisKeyPrefix+"redis-k"))

		require.NoError(t, s.Delete(ctx, "redis-k"))
		assert.False(t, mr.Exists(redisKeyPrefix+"redis-k"))
		_, ok, err = s.Get(ctx, "redis-k")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestRedisStore_KeepsLargeIntegers(t *testing.T) {
	s, _ := newTestRedisStore(t, false)
	ctx := context.Background()

	e := sampleEntry("big", time.Now())
	id, err := domain.ValueFromAny(int64(1234567890123456789))
	require.NoError(t, err)
	e.Value = map[string]any{"id": id.Interface()}
	require.NoError(t, s.Set(ctx, e))

	got, ok, err := s.Get(ctx, "big")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1234567890123456789", fmt.Sprint(got.Value.(map[string]any)["id"]))
}

func TestRedisStore_ServerExpiryIsAMiss(t *testing.T) {
	s, mr := newTestRedisStore(t, false)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, sampleEntry("k", time.Now())))
	mr.FastForward(61 * time.Second)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ExpiredEntryIsAMiss(t *testing.T) {
	s, mr := newTestRedisStore(t, false)
	ctx := context.Background()

	at := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at.Add(61 * time.Second) }

	// The key is still live on the server; only the entry's own timestamp is stale.
	require.NoError(t, s.Set(ctx, sampleEntry("k", at)))
	require.True(t, mr.Exists(redisKeyPrefix+"k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	s.now = func() time.Time { return at.Add(60 * time.Second) }
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "an entry exactly ttl seconds old is still fresh")
}

func TestRedisStore_CorruptPayloadIsDropped(t *testing.T) {
	s, mr := newTestRedisStore(t, false)
	ctx := context.Background()

	require.NoError(t, mr.Set(redisKeyPrefix+"bad", "{not json"))

	_, ok, err := s.Get(ctx, "bad")
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindCache))
	assert.False(t, mr.Exists(redisKeyPrefix+"bad"))
}

func TestRedisStore_ClearOnlyTouchesOwnKeys(t *testing.T) {
	s, mr := newTestRedisStore(t, false)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, s.Set(ctx, sampleEntry(fmt.Sprintf("k%d", i), time.Now())))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, s.Clear(ctx))

	for _, k := range mr.Keys() {
		assert.NotContains(t, k, redisKeyPrefix)
	}
	got, err := mr.Get("other:key")
	require.NoError(t, err)
	assert.Equal(t, "keep", got)
}
