package domain

import (
	"errors"
	"strings"
	"testing"
)

func testResolver(vars map[string]string) *EnvResolver {
	return NewEnvResolver(MapLookup(vars))
}

func TestResolveString_NoPlaceholders(t *testing.T) {
	got, err := testResolver(nil).ResolveString("https://api.example.com/$path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://api.example.com/$path" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestResolveString_MultipleVars(t *testing.T) {
	r := testResolver(map[string]string{"HOST": "api.example.com", "VERSION": "v2"})
	got, err := r.ResolveString("https://${HOST}/${ VERSION }/items")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://api.example.com/v2/items"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveString_EmptyValueIsNotMissing(t *testing.T) {
	got, err := testResolver(map[string]string{"EMPTY": ""}).ResolveString("a${EMPTY}b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}
}

func TestResolveString_MissingVar(t *testing.T) {
	_, err := testResolver(nil).ResolveString("Bearer ${GITHUB_TOKEN}")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindEnvVarNotFound) {
		t.Fatalf("expected ENV_VAR_NOT_FOUND, got: %v", err)
	}
	if !errors.Is(err, ErrMissingEnvVar) {
		t.Fatalf("expected ErrMissingEnvVar in chain")
	}
	if !strings.Contains(err.Error(), "GITHUB_TOKEN") {
		t.Fatalf("expected message to name the variable, got: %v", err)
	}
}

func TestResolveString_Malformed(t *testing.T) {
	for _, in := range []string{"${UNCLOSED", "${  }"} {
		_, err := testResolver(nil).ResolveString(in)
		if !IsKind(err, KindConfigInvalid) {
			t.Errorf("ResolveString(%q): expected CONFIG_INVALID, got %v", in, err)
		}
	}
}

func TestResolveService(t *testing.T) {
	r := testResolver(map[string]string{
		"API_HOST":  "https://api.github.com",
		"GH_TOKEN":  "ghp_secret",
		"ORG":       "octo",
		"API_VER":   "2022-11-28",
		"PAGE_SIZE": "50",
	})

	svc := ServiceConfig{
		Name:    "github",
		BaseURL: "${API_HOST}",
		Auth:    &AuthConfig{Type: AuthBearer, Token: "${GH_TOKEN}"},
		Endpoints: []EndpointConfig{
			{
				Name:          "listRepos",
				Method:        MethodGet,
				Path:          "/orgs/${ORG}/repos",
				Headers:       Headers{"X-GitHub-Api-Version": "${API_VER}"},
				DefaultParams: Args{"per_page": StringValue("${PAGE_SIZE}"), "sort": NumberValue(1)},
			},
		},
		Aliases: []AliasConfig{
			{Name: "mine", Endpoint: "listRepos", Args: Args{"org": StringValue("${ORG}")}},
		},
	}

	got, err := r.ResolveService(svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.BaseURL != "https://api.github.com" {
		t.Fatalf("unexpected base url %q", got.BaseURL)
	}
	if got.Auth.Token != "ghp_secret" {
		t.Fatalf("expected token to resolve")
	}
	if svc.Auth.Token != "${GH_TOKEN}" {
		t.Fatalf("expected input to remain unresolved")
	}
	ep := got.Endpoints[0]
	if ep.Path != "/orgs/octo/repos" {
		t.Fatalf("unexpected path %q", ep.Path)
	}
	if ep.Headers["X-GitHub-Api-Version"] != "2022-11-28" {
		t.Fatalf("expected header to resolve")
	}
	if ep.DefaultParams["per_page"].String() != "50" {
		t.Fatalf("expected default param to resolve")
	}
	if ep.DefaultParams["sort"].Kind() != ValueNumber {
		t.Fatalf("expected numbers to pass through")
	}
	if got.Aliases[0].Args["org"].String() != "octo" {
		t.Fatalf("expected alias args to resolve")
	}
}

func TestResolveService_MissingTokenNamesField(t *testing.T) {
	svc := ServiceConfig{
		Name:    "x",
		BaseURL: "https://x",
		Auth:    &AuthConfig{Type: AuthBearer, Token: "${NOPE}"},
	}
	_, err := testResolver(nil).ResolveService(svc)
	if !IsKind(err, KindEnvVarNotFound) {
		t.Fatalf("expected ENV_VAR_NOT_FOUND, got %v", err)
	}
	if !strings.Contains(err.Error(), "authentication.token") {
		t.Fatalf("expected field context, got %v", err)
	}
	var oe *OpError
	if !errors.As(err, &oe) || oe.Details["variable"] != "NOPE" {
		t.Fatalf("expected variable detail to survive wrapping, got %+v", oe)
	}
}
