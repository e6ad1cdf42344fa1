package domain

import "strings"

// IsSensitiveHeader reports header names that carry credentials.
// extra lists additional names (e.g. a service's custom api-key header).
func IsSensitiveHeader(name string, extra ...string) bool {
	kk := strings.ToLower(strings.TrimSpace(name))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	}
	for _, e := range extra {
		if e != "" && strings.EqualFold(strings.TrimSpace(e), kk) {
			return true
		}
	}

	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "apikey")
}

// IsVolatileHeader reports headers that change per call without changing the response.
func IsVolatileHeader(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x-request-id", "x-correlation-id", "user-agent", "date", "traceparent", "tracestate":
		return true
	}
	return false
}
