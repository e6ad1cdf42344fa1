package domain

import (
	"testing"
	"time"
)

func TestCacheEntryExpired(t *testing.T) {
	stored := time.Unix(1700000000, 0)
	e := CacheEntry{Timestamp: stored, TTL: 60}

	if e.Expired(stored.Add(59 * time.Second)) {
		t.Fatalf("expected entry to be fresh before ttl")
	}
	if e.Expired(stored.Add(60 * time.Second)) {
		t.Fatalf("expected entry to be fresh exactly at ttl")
	}
	if !e.Expired(stored.Add(61 * time.Second)) {
		t.Fatalf("expected entry to expire after ttl")
	}
	if !(CacheEntry{Timestamp: stored}).Expired(stored) {
		t.Fatalf("expected zero ttl to be treated as expired")
	}
}
