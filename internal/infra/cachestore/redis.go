package cachestore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
)

const redisKeyPrefix = "apix:cache:"

// RedisStore keeps entries as plain string keys with a server-side TTL.
type RedisStore struct {
	cli      *redis.Client
	compress bool
	now      func() time.Time
}

var _ ports.CacheStore = (*RedisStore)(nil)

func NewRedisStore(cli *redis.Client, compress bool) *RedisStore {
	return &RedisStore{cli: cli, compress: compress, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	b, err := s.cli.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CacheEntry{}, false, nil
		}
		return domain.CacheEntry{}, false, cacheErr("cache.redis.get", "", err)
	}

	entry, err := decodeEntry(b)
	if err != nil {
		_ = s.Delete(ctx, key)
		return domain.CacheEntry{}, false, cacheErr("cache.redis.decode", "", err)
	}
	// The server TTL has second granularity; keep the same rule as the other stores.
	if entry.Expired(s.now()) {
		return domain.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, entry domain.CacheEntry) error {
	b, err := encodeEntry(entry, s.compress)
	if err != nil {
		return cacheErr("cache.redis.marshal", "", err)
	}
	ttl := time.Duration(entry.TTL) * time.Second
	if err := s.cli.Set(ctx, redisKeyPrefix+entry.Key, b, ttl).Err(); err != nil {
		return cacheErr("cache.redis.set", "", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.cli.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return cacheErr("cache.redis.delete", "", err)
	}
	return nil
}

// Clear deletes every key under the apix prefix; other keys are untouched.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.cli.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.cli.Del(ctx, batch...).Err(); err != nil {
				return cacheErr("cache.redis.clear", "", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return cacheErr("cache.redis.clear", "", err)
	}
	if len(batch) > 0 {
		if err := s.cli.Del(ctx, batch...).Err(); err != nil {
			return cacheErr("cache.redis.clear", "", err)
		}
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.cli.Close()
}
