package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/aalvaropc/apix/internal/domain"
)

// BuildRequest builds an HTTP request from a domain HTTPRequest.
// Strings and byte slices are sent as-is; any other body is JSON-encoded and
// gets Content-Type: application/json unless the caller set one.
func BuildRequest(ctx context.Context, spec domain.HTTPRequest) (*http.Request, error) {
	if strings.TrimSpace(spec.URL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindConfigInvalid,
			Err:  domain.ErrInvalidRequest,
		}
	}

	var body io.Reader
	contentType := ""

	switch b := spec.Body.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	case []byte:
		body = bytes.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "httpclient.build",
				Kind: domain.KindParamInvalid,
				Err:  err,
			}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	method := string(spec.Method)
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, spec.URL, body)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindConfigInvalid,
			Err:  err,
		}
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	return req, nil
}
