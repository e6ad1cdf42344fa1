package cachestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
)

const sqliteFile = "cache.db"

// Open builds the store selected by cfg.Backend. The returned close func is
// never nil.
func Open(ctx context.Context, cfg domain.CacheSettings) (ports.CacheStore, func() error, error) {
	noop := func() error { return nil }

	switch domain.CacheBackend(strings.ToLower(string(cfg.Backend))) {
	case domain.CacheNone:
		return NoopStore{}, noop, nil

	case domain.CacheSQLite:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, noop, cacheErr("cache.open", cfg.Dir, err)
		}
		s, err := NewSQLiteStore(filepath.Join(cfg.Dir, sqliteFile), cfg.Compress)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case domain.CacheRedis:
		cli := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cli.Ping(ctx).Err(); err != nil {
			_ = cli.Close()
			return nil, noop, cacheErr("cache.open", cfg.Redis.Addr, fmt.Errorf("redis ping: %w", err))
		}
		s := NewRedisStore(cli, cfg.Compress)
		return s, s.Close, nil

	case domain.CacheFile, "":
		return NewFileStore(cfg.Dir, WithCompression(cfg.Compress)), noop, nil

	default:
		return nil, noop, &domain.OpError{
			Op:   "cache.open",
			Kind: domain.KindConfigInvalid,
			Err:  fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidConfig, cfg.Backend),
		}
	}
}
