package cachestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
)

const entryExt = ".json"

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one JSON document per key under a directory.
// Writers race with last-writer-wins; readers treat partial files as misses.
type FileStore struct {
	dir      string
	compress bool
	now      func() time.Time
}

type Option func(*FileStore)

// WithCompression stores entries zstd-compressed.
func WithCompression(enabled bool) Option {
	return func(s *FileStore) { s.compress = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.CacheStore = (*FileStore)(nil)

func (s *FileStore) Get(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return domain.CacheEntry{}, false, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.CacheEntry{}, false, nil
		}
		return domain.CacheEntry{}, false, cacheErr("cache.file.read", path, err)
	}

	entry, err := decodeEntry(b)
	if err != nil {
		_ = os.Remove(path)
		return domain.CacheEntry{}, false, cacheErr("cache.file.decode", path, err)
	}

	if entry.Expired(s.now()) {
		_ = os.Remove(path)
		return domain.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

func (s *FileStore) Set(_ context.Context, entry domain.CacheEntry) error {
	path, err := s.pathFor(entry.Key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return cacheErr("cache.file.mkdir", s.dir, err)
	}

	b, err := encodeEntry(entry, s.compress)
	if err != nil {
		return cacheErr("cache.file.marshal", path, err)
	}

	// Atomic-ish write: unique tmp then rename.
	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s.%s.tmp", entry.Key, uuid.NewString()))
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		_ = os.Remove(tmp)
		return cacheErr("cache.file.write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return cacheErr("cache.file.rename", path, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cacheErr("cache.file.delete", path, err)
	}
	return nil
}

// Clear removes cache entries and stray tmp files, leaving anything else alone.
func (s *FileStore) Clear(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return cacheErr("cache.file.clear", s.dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != entryExt && ext != ".tmp" {
			continue
		}
		p := filepath.Join(s.dir, e.Name())
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cacheErr("cache.file.clear", p, err)
		}
	}
	return nil
}

func (s *FileStore) pathFor(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", &domain.OpError{
			Op:   "cache.file.key",
			Kind: domain.KindCache,
			Err:  fmt.Errorf("invalid cache key %q", key),
		}
	}
	return filepath.Join(s.dir, key+entryExt), nil
}

func cacheErr(op, path string, err error) error {
	return &domain.OpError{Op: op, Kind: domain.KindCache, Path: path, Err: err}
}
