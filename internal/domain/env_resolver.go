package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EnvLookup returns the value of an environment variable and whether it is set.
type EnvLookup func(name string) (string, bool)

// MapLookup adapts a plain map into an EnvLookup (useful for tests).
func MapLookup(vars map[string]string) EnvLookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// EnvResolver expands ${NAME} placeholders against one environment snapshot.
// It is the only component that sees environment values; everything downstream
// receives already-resolved configuration.
type EnvResolver struct {
	lookup EnvLookup
}

func NewEnvResolver(lookup EnvLookup) *EnvResolver {
	if lookup == nil {
		lookup = MapLookup(nil)
	}
	return &EnvResolver{lookup: lookup}
}

// ResolveString resolves every ${NAME} in s. Unset variables are an error,
// never an empty substitution.
func (r *EnvResolver) ResolveString(s string) (string, error) {
	// Fast path: no token start.
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '$' && s[i+1] == '{' {
			start := i + 2

			end := strings.IndexByte(s[start:], '}')
			if end < 0 {
				return "", &OpError{
					Op:   "env.resolve",
					Kind: KindConfigInvalid,
					Err:  errors.New("unclosed placeholder"),
				}
			}
			end = start + end

			name := strings.TrimSpace(s[start:end])
			if name == "" {
				return "", &OpError{
					Op:   "env.resolve",
					Kind: KindConfigInvalid,
					Err:  errors.New("empty placeholder"),
				}
			}

			val, ok := r.lookup(name)
			if !ok {
				return "", &OpError{
					Op:      "env.resolve",
					Kind:    KindEnvVarNotFound,
					Err:     fmt.Errorf("%w: %s", ErrMissingEnvVar, name),
					Details: map[string]any{"variable": name},
				}
			}

			b.WriteString(val)
			i = end + 1
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String(), nil
}

// ResolveHeaders resolves placeholders in header values.
func (r *EnvResolver) ResolveHeaders(h Headers) (Headers, error) {
	out := Headers{}
	for k, v := range h {
		rv, err := r.ResolveString(v)
		if err != nil {
			return nil, wrapField(err, "headers."+k)
		}
		out[k] = rv
	}
	return out, nil
}

// ResolveArgs resolves placeholders inside string and array values.
func (r *EnvResolver) ResolveArgs(a Args) (Args, error) {
	out := make(Args, len(a))
	for k, v := range a {
		rv, err := v.MapString(r.ResolveString)
		if err != nil {
			return nil, wrapField(err, k)
		}
		out[k] = rv
	}
	return out, nil
}

// ResolveService returns a resolved copy of svc (does not mutate input).
func (r *EnvResolver) ResolveService(svc ServiceConfig) (ServiceConfig, error) {
	out := svc

	var err error
	if out.BaseURL, err = r.ResolveString(svc.BaseURL); err != nil {
		return ServiceConfig{}, wrapField(err, "baseUrl")
	}
	if out.GraphQLEndpoint, err = r.ResolveString(svc.GraphQLEndpoint); err != nil {
		return ServiceConfig{}, wrapField(err, "graphqlEndpoint")
	}

	if svc.Auth != nil {
		a := *svc.Auth
		if a.Token, err = r.ResolveString(a.Token); err != nil {
			return ServiceConfig{}, wrapField(err, "authentication.token")
		}
		if a.Header, err = r.ResolveString(a.Header); err != nil {
			return ServiceConfig{}, wrapField(err, "authentication.header")
		}
		out.Auth = &a
	}

	out.Endpoints = make([]EndpointConfig, 0, len(svc.Endpoints))
	for _, ep := range svc.Endpoints {
		rep, err := r.ResolveEndpoint(ep)
		if err != nil {
			return ServiceConfig{}, wrapField(err, "endpoints."+ep.Name)
		}
		out.Endpoints = append(out.Endpoints, rep)
	}

	out.Aliases = make([]AliasConfig, 0, len(svc.Aliases))
	for _, al := range svc.Aliases {
		ra := al
		if ra.Args, err = r.ResolveArgs(al.Args); err != nil {
			return ServiceConfig{}, wrapField(err, "aliases."+al.Name+".args")
		}
		out.Aliases = append(out.Aliases, ra)
	}

	return out, nil
}

// ResolveEndpoint resolves path, headers and default params of one endpoint.
func (r *EnvResolver) ResolveEndpoint(ep EndpointConfig) (EndpointConfig, error) {
	out := ep

	var err error
	if out.Path, err = r.ResolveString(ep.Path); err != nil {
		return EndpointConfig{}, wrapField(err, "path")
	}
	if ep.Headers != nil {
		if out.Headers, err = r.ResolveHeaders(ep.Headers); err != nil {
			return EndpointConfig{}, err
		}
	}
	if ep.DefaultParams != nil {
		if out.DefaultParams, err = r.ResolveArgs(ep.DefaultParams); err != nil {
			return EndpointConfig{}, wrapField(err, "defaultParams")
		}
	}
	return out, nil
}

func wrapField(err error, field string) error {
	// Keep Kind and Details, but add context about which field was being resolved.
	var oe *OpError
	if errors.As(err, &oe) {
		return &OpError{
			Op:      oe.Op,
			Kind:    oe.Kind,
			Path:    oe.Path,
			Err:     fmt.Errorf("%s: %w", field, oe.Err),
			Details: oe.Details,
		}
	}
	return &OpError{
		Op:   "env.resolve",
		Kind: KindInternal,
		Err:  fmt.Errorf("%s: %w", field, err),
	}
}
