package domain

import "time"

// CacheMetadata records where a cached payload came from.
type CacheMetadata struct {
	Service  string `json:"service"`
	Endpoint string `json:"endpoint"`
	URL      string `json:"url"`
}

// CacheEntry is one persisted, post-transform response.
type CacheEntry struct {
	Key       string        `json:"key"`
	Value     any           `json:"value"`
	Timestamp time.Time     `json:"timestamp"`
	TTL       int           `json:"ttl"` // seconds
	Metadata  CacheMetadata `json:"metadata"`
}

// Expired reports whether the entry is older than its TTL at now.
// Expiry is only ever evaluated lazily, on read.
func (e CacheEntry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return true
	}
	return now.Sub(e.Timestamp) > time.Duration(e.TTL)*time.Second
}

// CacheKeyInput is everything that makes two requests "the same" for caching.
type CacheKeyInput struct {
	Service  string
	Endpoint string
	Method   HTTPMethod
	URL      string
	Body     any
	Headers  Headers

	// SensitiveHeaders names extra credential headers to leave out, such as
	// a service's custom api key header.
	SensitiveHeaders []string
}
