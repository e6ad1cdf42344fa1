package domain

import (
	"net/url"
	"time"
)

// MappedRequest is the outcome of parameter mapping: every argument sits in exactly one bucket.
type MappedRequest struct {
	Path    string
	Query   url.Values
	Headers Headers
	Body    map[string]any

	// Variables holds GraphQL variables when the endpoint is a GraphQL operation.
	Variables map[string]any
}

// Clone deep-copies the maps so appliers can stay pure.
func (m MappedRequest) Clone() MappedRequest {
	out := MappedRequest{Path: m.Path}

	out.Query = url.Values{}
	for k, v := range m.Query {
		cp := make([]string, len(v))
		copy(cp, v)
		out.Query[k] = cp
	}

	out.Headers = Headers{}
	for k, v := range m.Headers {
		out.Headers[k] = v
	}

	if m.Body != nil {
		out.Body = make(map[string]any, len(m.Body))
		for k, v := range m.Body {
			out.Body[k] = v
		}
	}
	if m.Variables != nil {
		out.Variables = make(map[string]any, len(m.Variables))
		for k, v := range m.Variables {
			out.Variables[k] = v
		}
	}
	return out
}

// HTTPRequest is what the executor sends. Body may be nil, a string, []byte,
// or any JSON-encodable value.
type HTTPRequest struct {
	Method  HTTPMethod
	URL     string
	Headers Headers
	Body    any
}

// HTTPResponse is a parsed upstream response. Data is decoded JSON when the
// content type says so, otherwise the raw text.
type HTTPResponse struct {
	Status   int
	Headers  map[string][]string
	Data     any
	Duration time.Duration
}
