package domain

import "strings"

// HTTPMethod represents an HTTP method (e.g., GET, POST).
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

// ParseMethod normalizes m and reports whether it is supported.
func ParseMethod(m string) (HTTPMethod, bool) {
	up := HTTPMethod(strings.ToUpper(strings.TrimSpace(m)))
	switch up {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return up, true
	default:
		return "", false
	}
}

// CarriesQuery reports whether unrouted arguments become query parameters.
func (m HTTPMethod) CarriesQuery() bool {
	return m == MethodGet || m == MethodDelete
}

// Headers is a map representation of HTTP headers.
type Headers map[string]string

// AuthType selects how credentials are attached to a request.
type AuthType string

const (
	AuthBearer AuthType = "bearer"
	AuthAPIKey AuthType = "apikey"
)

// AuthLocation says where an api key goes.
type AuthLocation string

const (
	AuthInHeader AuthLocation = "header"
	AuthInQuery  AuthLocation = "query"
)

const (
	DefaultAPIKeyHeader = "X-API-Key"
	DefaultAPIKeyParam  = "api_key"
)

// AuthConfig describes the credentials of a service. Token usually holds a ${VAR}
// placeholder until the service is resolved.
type AuthConfig struct {
	Type       AuthType
	Token      string
	Header     string
	Location   AuthLocation
	QueryParam string
}

// TransformConfig is one stage of the transform pipeline.
// Within a stage: Query, then Extract, then Fields, then Rename.
type TransformConfig struct {
	// Query is a JMESPath expression applied to the whole payload.
	Query string

	// Extract maps output names to JSONPath expressions.
	Extract map[string]string

	// Fields lists dot-paths to keep (supports [n] and [*]).
	Fields []string

	// Rename moves fields, applied in declared order.
	Rename []RenameRule
}

// RenameRule moves the value at From to To.
type RenameRule struct {
	From string
	To   string
}

// IsZero reports whether the stage does nothing.
func (t TransformConfig) IsZero() bool {
	return t.Query == "" && len(t.Extract) == 0 && len(t.Fields) == 0 && len(t.Rename) == 0
}

// GraphQLSpec marks an endpoint as a GraphQL operation.
type GraphQLSpec struct {
	Query         string
	OperationName string
}

// EndpointConfig is one named, parameterized operation of a service.
type EndpointConfig struct {
	Name          string
	Description   string
	Method        HTTPMethod
	Path          string
	CacheTTL      int // seconds; 0 disables caching
	Headers       Headers
	DefaultParams Args
	Transform     []TransformConfig

	GraphQL *GraphQLSpec
}

// IsGraphQL reports whether the endpoint is sent as a GraphQL operation.
func (e EndpointConfig) IsGraphQL() bool {
	return e.GraphQL != nil && strings.TrimSpace(e.GraphQL.Query) != ""
}

// AliasConfig binds an endpoint to a set of default arguments.
type AliasConfig struct {
	Name     string
	Endpoint string
	Args     Args
}

// ServiceConfig groups the endpoints of one upstream API.
type ServiceConfig struct {
	Name            string
	Description     string
	BaseURL         string
	GraphQLEndpoint string
	Auth            *AuthConfig
	Endpoints       []EndpointConfig
	Aliases         []AliasConfig

	// Source is the file the service was loaded from.
	Source string
}

// Endpoint looks up an endpoint by name.
func (s ServiceConfig) Endpoint(name string) (EndpointConfig, bool) {
	for _, e := range s.Endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return EndpointConfig{}, false
}

// Alias looks up an alias by name.
func (s ServiceConfig) Alias(name string) (AliasConfig, bool) {
	for _, a := range s.Aliases {
		if a.Name == name {
			return a, true
		}
	}
	return AliasConfig{}, false
}

// ServiceScope tells which search root a service came from.
type ServiceScope string

const (
	ScopeGlobal ServiceScope = "global"
	ScopeLocal  ServiceScope = "local"
)

// ServiceRef is a lightweight reference to a service file on disk.
type ServiceRef struct {
	Name  string
	Path  string
	Scope ServiceScope
}
