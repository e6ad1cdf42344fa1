package tui

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/apix/internal/domain"
)

// userMessage turns a load error into a one-line hint.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	path := ""
	var oe *domain.OpError
	if errors.As(err, &oe) {
		path = strings.TrimSpace(oe.Path)
	}
	return hintFor(domain.ToResultError(err), path)
}

// hintFor maps a structured call error to a short hint.
func hintFor(re *domain.ResultError, path string) string {
	if re == nil {
		return ""
	}

	switch domain.ErrorKind(re.Code) {
	case domain.KindServiceNotFound:
		return "Service not found"
	case domain.KindEndpointNotFound:
		return "Endpoint not found"
	case domain.KindEnvVarNotFound:
		if v, ok := re.Details["variable"].(string); ok && v != "" {
			return "Missing variable " + v + " (export it or add it to .env)"
		}
		return "Missing variable"
	case domain.KindParamRequired:
		return "Endpoint needs parameters; define an alias or use apix call"
	case domain.KindConfigParse, domain.KindConfigInvalid:
		if path != "" {
			return "Invalid service file " + filepath.Base(path)
		}
		return "Invalid config"
	case domain.KindAuthMissing, domain.KindAuthInvalid:
		return "Authentication is not configured"
	case domain.KindAPITimeout:
		return "Request timed out"
	case domain.KindAPIRequestFailed:
		if s, ok := re.Details["status"].(int); ok {
			return fmt.Sprintf("Upstream returned %d %s", s, http.StatusText(s))
		}
		return "Request failed"
	default:
		return "Unexpected error (see logs)"
	}
}
