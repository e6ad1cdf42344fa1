package ports

import (
	"context"

	"github.com/aalvaropc/apix/internal/domain"
)

//go:generate mockgen -destination=../mocks/cache_store_mock.go -package=mocks github.com/aalvaropc/apix/internal/ports CacheStore

// CacheStore persists post-transform responses across process invocations.
// Get reports (entry, true, nil) on a live hit; expired and corrupt entries are misses.
type CacheStore interface {
	Get(ctx context.Context, key string) (domain.CacheEntry, bool, error)
	Set(ctx context.Context, entry domain.CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
