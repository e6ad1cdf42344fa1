package params

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/apix/internal/domain"
)

func TestMap_PathParam(t *testing.T) {
	ep := domain.EndpointConfig{Name: "getUser", Method: domain.MethodGet, Path: "/users/{id}"}

	got, err := Map(ep, domain.Args{"id": domain.StringValue("42")}, domain.ParamHints{})
	require.NoError(t, err)

	assert.Equal(t, "/users/42", got.Path)
	assert.Empty(t, got.Query)
	assert.Nil(t, got.Body)
}

func TestMap_PathParamIsEscapedAndNumbersFormatted(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodGet, Path: "/files/{name}/rev/{rev}"}

	got, err := Map(ep, domain.Args{
		"name": domain.StringValue("a b/c"),
		"rev":  domain.NumberValue(3),
	}, domain.ParamHints{})
	require.NoError(t, err)
	assert.Equal(t, "/files/a%20b%2Fc/rev/3", got.Path)
}

func TestMap_LongNumericIDsReachTheWireUnchanged(t *testing.T) {
	const id = "1234567890123456789"
	fromYAML, err := domain.ValueFromAny(int64(1234567890123456789))
	require.NoError(t, err)

	get := domain.EndpointConfig{Method: domain.MethodGet, Path: "/tweets/{id}"}
	got, err := Map(get, domain.Args{"id": domain.ParseValue(id), "since": fromYAML}, domain.ParamHints{})
	require.NoError(t, err)
	assert.Equal(t, "/tweets/"+id, got.Path)
	assert.Equal(t, []string{id}, got.Query["since"])

	post := domain.EndpointConfig{Method: domain.MethodPost, Path: "/tweets"}
	got, err = Map(post, domain.Args{"reply_to": fromYAML}, domain.ParamHints{})
	require.NoError(t, err)
	assert.Equal(t, json.Number(id), got.Body["reply_to"])
}

func TestMap_MissingPathParamNamesIt(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodGet, Path: "/repos/{owner}/{repo}"}

	_, err := Map(ep, domain.Args{"owner": domain.StringValue("octo")}, domain.ParamHints{})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindParamRequired))
	assert.True(t, errors.Is(err, domain.ErrMissingParam))
	assert.Contains(t, err.Error(), `"repo"`)

	var oe *domain.OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "repo", oe.Details["param"])
}

func TestMap_DefaultsDoNotSatisfyPathParams(t *testing.T) {
	ep := domain.EndpointConfig{
		Method:        domain.MethodGet,
		Path:          "/users/{id}",
		DefaultParams: domain.Args{"id": domain.StringValue("1")},
	}

	_, err := Map(ep, domain.Args{}, domain.ParamHints{})
	assert.True(t, domain.IsKind(err, domain.KindParamRequired))
}

func TestMap_ArrayInPathIsInvalid(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodGet, Path: "/users/{id}"}

	_, err := Map(ep, domain.Args{"id": domain.ArrayValue("1", "2")}, domain.ParamHints{})
	assert.True(t, domain.IsKind(err, domain.KindParamInvalid))
}

func TestMap_PostAutoRoutesToBody(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodPost, Path: "/users"}

	got, err := Map(ep, domain.Args{
		"name":  domain.StringValue("Ann"),
		"email": domain.StringValue("a@x.com"),
	}, domain.ParamHints{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Ann", "email": "a@x.com"}, got.Body)
	assert.Empty(t, got.Query)
}

func TestMap_BodyKeepsTypes(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodPatch, Path: "/items/{id}"}

	got, err := Map(ep, domain.Args{
		"id":     domain.StringValue("7"),
		"count":  domain.NumberValue(3),
		"active": domain.BoolValue(true),
		"tags":   domain.ArrayValue("a", "b"),
	}, domain.ParamHints{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"count":  3.0,
		"active": true,
		"tags":   []any{"a", "b"},
	}, got.Body)
}

func TestMap_GetArraysRepeatInQuery(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodGet, Path: "/search"}

	got, err := Map(ep, domain.Args{
		"tag":  domain.ArrayValue("go", "http"),
		"page": domain.NumberValue(2),
	}, domain.ParamHints{})
	require.NoError(t, err)

	assert.Equal(t, url.Values{"tag": {"go", "http"}, "page": {"2"}}, got.Query)
}

func TestMap_HintsOverrideAutoRouting(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodPost, Path: "/things"}

	got, err := Map(ep, domain.Args{
		"X-Trace": domain.StringValue("abc"),
		"dryRun":  domain.BoolValue(true),
		"name":    domain.StringValue("n"),
	}, domain.ParamHints{Header: []string{"X-Trace"}, Query: []string{"dryRun"}})
	require.NoError(t, err)

	assert.Equal(t, "abc", got.Headers["X-Trace"])
	assert.Equal(t, "true", got.Query.Get("dryRun"))
	assert.Equal(t, map[string]any{"name": "n"}, got.Body)
}

func TestMap_DefaultsFillButNeverOverride(t *testing.T) {
	ep := domain.EndpointConfig{
		Method: domain.MethodGet,
		Path:   "/repos",
		DefaultParams: domain.Args{
			"per_page": domain.NumberValue(30),
			"sort":     domain.StringValue("created"),
		},
	}

	got, err := Map(ep, domain.Args{"sort": domain.StringValue("updated")}, domain.ParamHints{})
	require.NoError(t, err)

	assert.Equal(t, "updated", got.Query.Get("sort"))
	assert.Equal(t, "30", got.Query.Get("per_page"))
}

func TestMap_SkipsInternalKeys(t *testing.T) {
	ep := domain.EndpointConfig{Method: domain.MethodGet, Path: "/x"}

	got, err := Map(ep, domain.Args{
		"_":    domain.ArrayValue("call"),
		"$0":   domain.StringValue("apix"),
		"keep": domain.StringValue("1"),
	}, domain.ParamHints{})
	require.NoError(t, err)

	assert.Equal(t, url.Values{"keep": {"1"}}, got.Query)
}

func TestMap_StaticHeadersAreCopied(t *testing.T) {
	ep := domain.EndpointConfig{
		Method:  domain.MethodGet,
		Path:    "/x",
		Headers: domain.Headers{"Accept": "application/json"},
	}

	got, err := Map(ep, domain.Args{}, domain.ParamHints{})
	require.NoError(t, err)
	got.Headers["Accept"] = "changed"

	assert.Equal(t, "application/json", ep.Headers["Accept"])
}

func TestMap_GraphQLArgsBecomeVariables(t *testing.T) {
	ep := domain.EndpointConfig{
		Method:  domain.MethodPost,
		GraphQL: &domain.GraphQLSpec{Query: "query($login: String!) { user(login: $login) { name } }"},
	}

	got, err := Map(ep, domain.Args{
		"login":    domain.StringValue("octocat"),
		"first":    domain.NumberValue(10),
		"X-Header": domain.StringValue("h"),
	}, domain.ParamHints{Header: []string{"X-Header"}, Query: []string{"first"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"login": "octocat", "first": 10.0}, got.Variables)
	assert.Equal(t, "h", got.Headers["X-Header"])
	assert.Nil(t, got.Body)
	assert.Empty(t, got.Query)
}

func TestPathParams(t *testing.T) {
	assert.Equal(t, []string{"owner", "repo"}, PathParams("/repos/{owner}/{repo}/forks/{owner}"))
	assert.Empty(t, PathParams("/static"))
}
