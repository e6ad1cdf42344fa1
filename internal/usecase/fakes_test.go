package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aalvaropc/apix/internal/domain"
)

type fakeServiceLoader struct {
	services map[string]domain.ServiceConfig
}

func newFakeLoader(svcs ...domain.ServiceConfig) fakeServiceLoader {
	m := map[string]domain.ServiceConfig{}
	for _, s := range svcs {
		m[s.Name] = s
	}
	return fakeServiceLoader{services: m}
}

func (f fakeServiceLoader) LoadService(_ context.Context, name string) (domain.ServiceConfig, error) {
	svc, ok := f.services[name]
	if !ok {
		return domain.ServiceConfig{}, &domain.OpError{
			Op:   "fake.load",
			Kind: domain.KindServiceNotFound,
			Err:  fmt.Errorf("%w: %s", domain.ErrNotFound, name),
		}
	}
	return svc, nil
}

func (f fakeServiceLoader) ListServices(context.Context) ([]domain.ServiceRef, error) {
	out := make([]domain.ServiceRef, 0, len(f.services))
	for name := range f.services {
		out = append(out, domain.ServiceRef{Name: name, Scope: domain.ScopeGlobal})
	}
	return out, nil
}

// fakeExecutor records every request and answers with respond.
type fakeExecutor struct {
	mu       sync.Mutex
	requests []domain.HTTPRequest
	respond  func(req domain.HTTPRequest) (domain.HTTPResponse, error)
}

func (f *fakeExecutor) Execute(_ context.Context, req domain.HTTPRequest, _ time.Duration) (domain.HTTPResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.respond == nil {
		return domain.HTTPResponse{Status: 200, Data: map[string]any{"ok": true}}, nil
	}
	return f.respond(req)
}

func (f *fakeExecutor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeExecutor) last() domain.HTTPRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// memCache honors lazy expiry against the shared test clock.
type memCache struct {
	now     func() time.Time
	entries map[string]domain.CacheEntry
	sets    int
}

func newMemCache(now func() time.Time) *memCache {
	return &memCache{now: now, entries: map[string]domain.CacheEntry{}}
}

func (m *memCache) Get(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	e, ok := m.entries[key]
	if !ok || e.Expired(m.now()) {
		return domain.CacheEntry{}, false, nil
	}
	return e, true, nil
}

func (m *memCache) Set(_ context.Context, e domain.CacheEntry) error {
	m.entries[e.Key] = e
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memCache) Clear(context.Context) error {
	m.entries = map[string]domain.CacheEntry{}
	return nil
}

type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// plainKey is a readable stand-in for the real fingerprint.
func plainKey(in domain.CacheKeyInput) string {
	return in.Service + "|" + in.Endpoint + "|" + string(in.Method) + "|" + in.URL
}

func githubService() domain.ServiceConfig {
	return domain.ServiceConfig{
		Name:    "github",
		BaseURL: "https://api.github.com",
		Auth:    &domain.AuthConfig{Type: domain.AuthBearer, Token: "${GITHUB_TOKEN}", Location: domain.AuthInHeader},
		Endpoints: []domain.EndpointConfig{
			{
				Name:     "getRepo",
				Method:   domain.MethodGet,
				Path:     "/repos/{owner}/{repo}",
				CacheTTL: 60,
				Headers:  domain.Headers{"Accept": "application/vnd.github+json"},
			},
			{
				Name:   "getUser",
				Method: domain.MethodGet,
				Path:   "/users/{id}",
			},
			{
				Name:   "createIssue",
				Method: domain.MethodPost,
				Path:   "/repos/{owner}/{repo}/issues",
			},
		},
		Aliases: []domain.AliasConfig{
			{Name: "myRepo", Endpoint: "getRepo", Args: domain.Args{
				"owner": domain.StringValue("octo"),
				"repo":  domain.StringValue("${DEFAULT_REPO}"),
			}},
		},
	}
}

func testEnv() *domain.EnvResolver {
	return domain.NewEnvResolver(domain.MapLookup(map[string]string{
		"GITHUB_TOKEN": "ghp_abcdefgh1234",
		"DEFAULT_REPO": "hello-world",
	}))
}
