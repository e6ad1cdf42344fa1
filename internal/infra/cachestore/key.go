package cachestore

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/goccy/go-json"

	"github.com/aalvaropc/apix/internal/domain"
)

// GenerateKey fingerprints a request. Credentials and volatile headers are
// excluded so the same request under different tokens shares one entry.
func GenerateKey(in domain.CacheKeyInput) string {
	headers := make(map[string]string, len(in.Headers))
	for k, v := range in.Headers {
		if domain.IsSensitiveHeader(k, in.SensitiveHeaders...) || domain.IsVolatileHeader(k) {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(k))] = v
	}

	fp := struct {
		Service  string            `json:"service"`
		Endpoint string            `json:"endpoint"`
		Method   string            `json:"method"`
		URL      string            `json:"url"`
		Body     any               `json:"body,omitempty"`
		Headers  map[string]string `json:"headers"`
	}{
		Service:  in.Service,
		Endpoint: in.Endpoint,
		Method:   string(in.Method),
		URL:      in.URL,
		Body:     in.Body,
		Headers:  headers,
	}

	// Map keys are encoded sorted, so the encoding is canonical.
	b, err := json.Marshal(fp)
	if err != nil {
		b = []byte(in.Service + "\x00" + in.Endpoint + "\x00" + string(in.Method) + "\x00" + in.URL)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
