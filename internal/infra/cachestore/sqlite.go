package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
)

// SQLiteStore keeps entries in a single-table SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	compress bool
	now      func() time.Time
}

var _ ports.CacheStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
func NewSQLiteStore(dbPath string, compress bool) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, cacheErr("cache.sqlite.open", dbPath, fmt.Errorf("failed to open database: %w", err))
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, cacheErr("cache.sqlite.open", dbPath, fmt.Errorf("failed to enable WAL mode: %w", err))
	}

	const schema = `CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		service TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		payload BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, cacheErr("cache.sqlite.schema", dbPath, fmt.Errorf("failed to initialize schema: %w", err))
	}

	return &SQLiteStore{db: db, path: dbPath, compress: compress, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM cache_entries WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CacheEntry{}, false, nil
		}
		return domain.CacheEntry{}, false, cacheErr("cache.sqlite.get", s.path, err)
	}

	entry, err := decodeEntry(payload)
	if err != nil {
		_ = s.Delete(ctx, key)
		return domain.CacheEntry{}, false, cacheErr("cache.sqlite.decode", s.path, err)
	}
	if entry.Expired(s.now()) {
		_ = s.Delete(ctx, key)
		return domain.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, entry domain.CacheEntry) error {
	payload, err := encodeEntry(entry, s.compress)
	if err != nil {
		return cacheErr("cache.sqlite.marshal", s.path, err)
	}

	expires := entry.Timestamp.Add(time.Duration(entry.TTL) * time.Second).Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, service, endpoint, payload, expires_at) VALUES (?, ?, ?, ?, ?)`,
		entry.Key, entry.Metadata.Service, entry.Metadata.Endpoint, payload, expires,
	)
	if err != nil {
		return cacheErr("cache.sqlite.set", s.path, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return cacheErr("cache.sqlite.delete", s.path, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return cacheErr("cache.sqlite.clear", s.path, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
