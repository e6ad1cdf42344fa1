package cachestore

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/aalvaropc/apix/internal/domain"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	dec, _ = zstd.NewReader(nil)
)

// encodeEntry serializes an entry, optionally zstd-compressed.
func encodeEntry(e domain.CacheEntry, compress bool) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	if !compress {
		return b, nil
	}
	return enc.EncodeAll(b, make([]byte, 0, len(b)/2)), nil
}

// decodeEntry accepts both plain and compressed payloads so the compression
// setting can change without invalidating existing entries.
func decodeEntry(b []byte) (domain.CacheEntry, error) {
	if bytes.HasPrefix(b, zstdMagic) {
		raw, err := dec.DecodeAll(b, nil)
		if err != nil {
			return domain.CacheEntry{}, fmt.Errorf("zstd: %w", err)
		}
		b = raw
	}

	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()

	var e domain.CacheEntry
	if err := d.Decode(&e); err != nil {
		return domain.CacheEntry{}, err
	}
	e.Value = domain.ExactNumbers(e.Value)
	if e.Key == "" || e.Timestamp.IsZero() {
		return domain.CacheEntry{}, fmt.Errorf("incomplete cache entry")
	}
	return e, nil
}
