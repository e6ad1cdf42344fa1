package cachestore

import (
	"context"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
)

// NoopStore disables caching: every read misses and writes are dropped.
type NoopStore struct{}

var _ ports.CacheStore = NoopStore{}

func (NoopStore) Get(context.Context, string) (domain.CacheEntry, bool, error) {
	return domain.CacheEntry{}, false, nil
}
func (NoopStore) Set(context.Context, domain.CacheEntry) error { return nil }
func (NoopStore) Delete(context.Context, string) error         { return nil }
func (NoopStore) Clear(context.Context) error                  { return nil }
