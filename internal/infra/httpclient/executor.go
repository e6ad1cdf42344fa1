package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
)

const defaultMaxBodyBytes = 10 << 20 // 10MB

// Executor issues requests and maps every failure onto an engine error kind.
type Executor struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the timeout used when a call passes none.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) {
		if client != nil {
			e.client = client
		}
	}
}

func WithMaxBodyBytes(n int64) ExecutorOption {
	return func(e *Executor) { e.maxBodyBytes = n }
}

// NewExecutor builds an Executor with a default client and timeout.
// The client carries no timeout of its own: the per-call deadline is the
// only limit, so callers can go above the default.
func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	timeout := cfg.Timeout
	cfg.Timeout = 0
	e := &Executor{
		client:       New(cfg),
		timeout:      timeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.RequestExecutor = (*Executor)(nil)

// Execute sends req under a hard timeout. A 2xx response is never an error;
// anything else comes back as API_TIMEOUT, API_REQUEST_FAILED or
// API_RESPONSE_INVALID.
func (e *Executor) Execute(ctx context.Context, req domain.HTTPRequest, timeout time.Duration) (domain.HTTPResponse, error) {
	if timeout <= 0 {
		timeout = e.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := BuildRequest(ctx, req)
	if err != nil {
		return domain.HTTPResponse{}, err
	}

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return domain.HTTPResponse{Duration: time.Since(start)}, transportError(err, timeout)
	}
	defer resp.Body.Close()

	body, err := readBounded(resp.Body, e.maxBodyBytes)
	duration := time.Since(start)
	if errors.Is(err, errBodyTooLarge) {
		return domain.HTTPResponse{Status: resp.StatusCode, Duration: duration}, &domain.OpError{
			Op:   "httpclient.read",
			Kind: domain.KindAPIResponseInvalid,
			Err:  err,
		}
	}
	if err != nil {
		return domain.HTTPResponse{Duration: duration}, transportError(err, timeout)
	}

	out := domain.HTTPResponse{
		Status:   resp.StatusCode,
		Headers:  cloneHeaders(resp.Header),
		Duration: duration,
	}

	data, parseErr := parseBody(resp.Header.Get("Content-Type"), body)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if !ok {
		if parseErr != nil {
			data = string(body)
		}
		out.Data = data
		return out, &domain.OpError{
			Op:   "httpclient.execute",
			Kind: domain.KindAPIRequestFailed,
			Err:  fmt.Errorf("upstream returned %s", resp.Status),
			Details: map[string]any{
				"status": resp.StatusCode,
				"body":   data,
			},
		}
	}

	if parseErr != nil {
		return out, &domain.OpError{
			Op:   "httpclient.decode",
			Kind: domain.KindAPIResponseInvalid,
			Err:  fmt.Errorf("invalid JSON response: %w", parseErr),
			Details: map[string]any{
				"status": resp.StatusCode,
			},
		}
	}

	out.Data = data
	return out, nil
}

func transportError(err error, timeout time.Duration) error {
	kind := domain.ClassifyNetError(err)
	if kind == domain.NetErrorTimeout {
		return &domain.OpError{
			Op:      "httpclient.execute",
			Kind:    domain.KindAPITimeout,
			Err:     fmt.Errorf("request exceeded %s", timeout),
			Details: map[string]any{"timeoutMs": timeout.Milliseconds()},
		}
	}
	return &domain.OpError{
		Op:      "httpclient.execute",
		Kind:    domain.KindAPIRequestFailed,
		Err:     err,
		Details: map[string]any{"type": string(kind)},
	}
}

var errBodyTooLarge = errors.New("response body too large")

func readBounded(r io.Reader, maxBytes int64) ([]byte, error) {
	lim := io.LimitReader(r, maxBytes+1)
	b, err := io.ReadAll(lim)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", errBodyTooLarge, maxBytes)
	}
	return b, nil
}

// parseBody decodes JSON when the content type says so; everything else is text.
func parseBody(contentType string, body []byte) (any, error) {
	if !isJSON(contentType) {
		return string(body), nil
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	return decodeJSON(body)
}

// decodeJSON keeps integers float64 cannot hold as json.Number.
func decodeJSON(body []byte) (any, error) {
	if !json.Valid(body) {
		return nil, errors.New("malformed JSON document")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return domain.ExactNumbers(v), nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func cloneHeaders(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
