package cachestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/apix/internal/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func sampleEntry(key string, at time.Time) domain.CacheEntry {
	return domain.CacheEntry{
		Key:       key,
		Value:     map[string]any{"name": "hello", "stars": 3.0},
		Timestamp: at,
		TTL:       60,
		Metadata:  domain.CacheMetadata{Service: "github", Endpoint: "getRepo", URL: "https://x/y"},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		dir := t.TempDir()
		c := &clock{t: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)}
		s := NewFileStore(dir, WithCompression(compress), WithNow(c.now))
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, sampleEntry("abc123", c.t)))

		got, ok, err := s.Get(ctx, "abc123")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"name": "hello", "stars": 3.0}, got.Value)
		assert.Equal(t, "getRepo", got.Metadata.Endpoint)

		// No tmp files left behind.
		matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
		assert.Empty(t, matches)
	}
}

func TestFileStore_MissingKeyIsMiss(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ExpiredEntryIsMissAndRemoved(t *testing.T) {
	dir := t.TempDir()
	c := &clock{t: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)}
	s := NewFileStore(dir, WithNow(c.now))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, sampleEntry("k1", c.t)))

	c.t = c.t.Add(60 * time.Second)
	_, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok, "an entry exactly TTL old is still fresh")

	c.t = c.t.Add(time.Second)
	_, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(filepath.Join(dir, "k1.json"))
	assert.True(t, os.IsNotExist(statErr), "expired entry should be removed lazily")
}

func TestFileStore_CorruptEntryIsMissAndRemoved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"key":"bad","value":`), 0o600))

	s := NewFileStore(dir)
	_, ok, err := s.Get(context.Background(), "bad")
	assert.False(t, ok)
	assert.True(t, domain.IsKind(err, domain.KindCache), "got %v", err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStore_RejectsPathLikeKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	err := s.Set(context.Background(), sampleEntry("../escape", time.Now()))
	assert.True(t, domain.IsKind(err, domain.KindCache))
}

func TestFileStore_DeleteAndClear(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Set(ctx, sampleEntry("a", now)))
	require.NoError(t, s.Set(ctx, sampleEntry("b", now)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o600))

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"), "deleting a missing key is fine")
	_, ok, _ := s.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx))
	_, ok, _ = s.Get(ctx, "b")
	assert.False(t, ok)

	_, err := os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err, "clear only touches cache files")
}

func TestFileStore_ClearMissingDir(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "never-created"))
	assert.NoError(t, s.Clear(context.Background()))
}
