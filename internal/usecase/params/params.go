// Package params classifies runtime arguments into the path, query, header and
// body buckets of one request.
package params

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aalvaropc/apix/internal/domain"
)

var pathToken = regexp.MustCompile(`\{([^{}]+)\}`)

type bucket int

const (
	bucketAuto bucket = iota
	bucketHeader
	bucketQuery
	bucketBody
)

// PathParams returns the distinct {param} names of a path template, in order.
func PathParams(path string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, m := range pathToken.FindAllStringSubmatch(path, -1) {
		name := strings.TrimSpace(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Map builds the mapped request of one call.
//
// Path tokens are satisfied first and only from args. Remaining args honor
// hints, then auto-route by method (GET/DELETE to query, others to body).
// Endpoint defaults fill keys that args did not set and never override them.
// GraphQL endpoints send every non-header argument as a typed variable.
func Map(ep domain.EndpointConfig, args domain.Args, hints domain.ParamHints) (domain.MappedRequest, error) {
	out := domain.MappedRequest{
		Query:   url.Values{},
		Headers: domain.Headers{},
	}

	consumed := map[string]struct{}{}
	path, err := fillPath(ep.Path, args, consumed)
	if err != nil {
		return domain.MappedRequest{}, err
	}
	out.Path = path

	for k, v := range ep.Headers {
		out.Headers[k] = v
	}

	route := hintIndex(hints)
	graphql := ep.IsGraphQL()

	place := func(key string, v domain.Value) {
		b := route[key]
		if b == bucketAuto {
			switch {
			case graphql:
				b = bucketBody
			case ep.Method.CarriesQuery():
				b = bucketQuery
			default:
				b = bucketBody
			}
		}

		switch b {
		case bucketHeader:
			out.Headers[key] = v.String()
		case bucketQuery:
			if graphql {
				setVar(&out, key, v)
				return
			}
			for _, s := range v.Strings() {
				out.Query.Add(key, s)
			}
		default:
			if graphql {
				setVar(&out, key, v)
				return
			}
			if out.Body == nil {
				out.Body = map[string]any{}
			}
			out.Body[key] = v.Interface()
		}
	}

	for _, k := range args.Keys() {
		if skip(k, consumed) {
			continue
		}
		place(k, args[k])
	}

	for _, k := range ep.DefaultParams.Keys() {
		if skip(k, consumed) {
			continue
		}
		if _, ok := args[k]; ok {
			continue
		}
		place(k, ep.DefaultParams[k])
	}

	return out, nil
}

func fillPath(tmpl string, args domain.Args, consumed map[string]struct{}) (string, error) {
	for _, name := range PathParams(tmpl) {
		v, ok := args[name]
		if !ok {
			return "", &domain.OpError{
				Op:      "params.path",
				Kind:    domain.KindParamRequired,
				Err:     fmt.Errorf("%w: path parameter %q", domain.ErrMissingParam, name),
				Details: map[string]any{"param": name},
			}
		}
		if v.IsArray() {
			return "", &domain.OpError{
				Op:      "params.path",
				Kind:    domain.KindParamInvalid,
				Err:     fmt.Errorf("path parameter %q cannot be a list", name),
				Details: map[string]any{"param": name},
			}
		}
		consumed[name] = struct{}{}
	}

	path := pathToken.ReplaceAllStringFunc(tmpl, func(tok string) string {
		name := strings.TrimSpace(tok[1 : len(tok)-1])
		return url.PathEscape(args[name].String())
	})
	return path, nil
}

func hintIndex(h domain.ParamHints) map[string]bucket {
	idx := map[string]bucket{}
	for _, k := range h.Body {
		idx[k] = bucketBody
	}
	for _, k := range h.Query {
		idx[k] = bucketQuery
	}
	// Header hints win over the others when a key is listed twice.
	for _, k := range h.Header {
		idx[k] = bucketHeader
	}
	return idx
}

func skip(key string, consumed map[string]struct{}) bool {
	if domain.IsInternalArg(key) {
		return true
	}
	_, used := consumed[key]
	return used
}

func setVar(m *domain.MappedRequest, key string, v domain.Value) {
	if m.Variables == nil {
		m.Variables = map[string]any{}
	}
	m.Variables[key] = v.Interface()
}
