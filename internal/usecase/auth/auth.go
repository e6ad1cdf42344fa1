// Package auth attaches service credentials to a mapped request and owns
// token redaction for anything that ends up in traces or logs.
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aalvaropc/apix/internal/domain"
)

var headerName = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Apply returns a copy of req with credentials attached. A nil cfg means the
// service is unauthenticated and req is returned unchanged (copied).
func Apply(cfg *domain.AuthConfig, req domain.MappedRequest) (domain.MappedRequest, error) {
	out := req.Clone()
	if cfg == nil {
		return out, nil
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return domain.MappedRequest{}, &domain.OpError{
			Op:   "auth.apply",
			Kind: domain.KindAuthMissing,
			Err:  errors.New("authentication token is empty"),
		}
	}

	switch cfg.Type {
	case domain.AuthBearer:
		out.Headers["Authorization"] = "Bearer " + token
		return out, nil

	case domain.AuthAPIKey:
		if cfg.Location == domain.AuthInQuery {
			param := strings.TrimSpace(cfg.QueryParam)
			if param == "" {
				param = domain.DefaultAPIKeyParam
			}
			out.Query.Set(param, token)
			return out, nil
		}

		name := HeaderName(cfg)
		if !headerName.MatchString(name) {
			return domain.MappedRequest{}, &domain.OpError{
				Op:   "auth.apply",
				Kind: domain.KindAuthInvalid,
				Err:  fmt.Errorf("invalid api key header name %q", name),
			}
		}
		out.Headers[name] = token
		return out, nil

	default:
		return domain.MappedRequest{}, &domain.OpError{
			Op:   "auth.apply",
			Kind: domain.KindAuthInvalid,
			Err:  fmt.Errorf("unsupported authentication type %q", cfg.Type),
		}
	}
}

// HeaderName returns the header an api key is sent in.
func HeaderName(cfg *domain.AuthConfig) string {
	if cfg == nil {
		return ""
	}
	if cfg.Type == domain.AuthBearer {
		return "Authorization"
	}
	name := strings.TrimSpace(cfg.Header)
	if name == "" {
		return domain.DefaultAPIKeyHeader
	}
	return name
}

const mask = "********"

// Redact keeps the first and last four characters of a token. Short tokens
// are fully masked.
func Redact(token string) string {
	r := []rune(token)
	if len(r) <= 8 {
		return mask
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}

// RedactHeaders returns a copy of h with sensitive values redacted. A leading
// auth scheme ("Bearer ", "Basic ") is preserved. extra names additional
// sensitive headers, such as a custom api key header.
func RedactHeaders(h domain.Headers, extra ...string) domain.Headers {
	out := make(domain.Headers, len(h))
	for k, v := range h {
		if !domain.IsSensitiveHeader(k, extra...) {
			out[k] = v
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}

// RedactQuery masks a query parameter value in a raw URL, used when an api
// key travels in the query string.
func RedactQuery(rawURL, param string) string {
	if param == "" {
		return rawURL
	}
	key := param + "="
	idx := strings.Index(rawURL, "?")
	if idx < 0 {
		return rawURL
	}

	parts := strings.Split(rawURL[idx+1:], "&")
	for i, p := range parts {
		if strings.HasPrefix(p, key) {
			parts[i] = key + Redact(p[len(key):])
		}
	}
	return rawURL[:idx+1] + strings.Join(parts, "&")
}

func redactValue(v string) string {
	if scheme, rest, ok := strings.Cut(v, " "); ok && isScheme(scheme) {
		return scheme + " " + Redact(strings.TrimSpace(rest))
	}
	return Redact(v)
}

func isScheme(s string) bool {
	switch strings.ToLower(s) {
	case "bearer", "basic", "token", "digest":
		return true
	}
	return false
}
