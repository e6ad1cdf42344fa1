package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/apix/internal/domain"
)

type stubServices struct{ refs []domain.ServiceRef }

func (s stubServices) LoadService(context.Context, string) (domain.ServiceConfig, error) {
	return domain.ServiceConfig{}, nil
}

func (s stubServices) ListServices(context.Context) ([]domain.ServiceRef, error) {
	return s.refs, nil
}

type stubCaller struct{ last domain.CallRequest }

func (s *stubCaller) Call(_ context.Context, req domain.CallRequest) domain.CallResult {
	s.last = req
	if req.Endpoint == "missing" {
		return domain.CallResult{Error: &domain.ResultError{Code: string(domain.KindEndpointNotFound), Message: "nope"}}
	}
	return domain.CallResult{Success: true, Data: map[string]any{"id": req.Args["id"].Interface()}}
}

type stubBatch struct{ last domain.BatchRequest }

func (s *stubBatch) Run(_ context.Context, req domain.BatchRequest) domain.BatchResult {
	s.last = req
	return domain.BatchResult{Success: true, Summary: domain.BatchSummary{Total: len(req.ArgSets), Succeeded: len(req.ArgSets)}}
}

func newTestServer() (*Server, *stubCaller, *stubBatch) {
	caller := &stubCaller{}
	batch := &stubBatch{}
	srv := New(":0", slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Services: stubServices{refs: []domain.ServiceRef{{Name: "github", Path: "/x/github.yaml", Scope: domain.ScopeLocal}}},
		Caller:   caller,
		Batch:    batch,
		Version:  "test",
	})
	return srv, caller, batch
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := do(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}

func TestListServices(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := do(t, srv, http.MethodGet, "/v1/services", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Services []serviceRef `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Services, 1)
	assert.Equal(t, serviceRef{Name: "github", Path: "/x/github.yaml", Scope: "local"}, out.Services[0])
}

func TestCallForwardsArgsAndOptions(t *testing.T) {
	srv, caller, _ := newTestServer()
	rec := do(t, srv, http.MethodPost, "/v1/services/github/call/getUser",
		`{"args":{"id":42,"tags":["a","b"]},"options":{"noCache":true,"timeoutMs":1500,"hints":{"header":["tags"]}}}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "github", caller.last.Service)
	assert.Equal(t, "getUser", caller.last.Endpoint)
	assert.Equal(t, domain.ValueNumber, caller.last.Args["id"].Kind())
	assert.Equal(t, []string{"a", "b"}, caller.last.Args["tags"].Strings())
	assert.True(t, caller.last.Options.NoCache)
	assert.Equal(t, int64(1500), caller.last.Options.Timeout.Milliseconds())
	assert.Equal(t, []string{"tags"}, caller.last.Options.Hints.Header)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestCallFailureMapsStatus(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := do(t, srv, http.MethodPost, "/v1/services/github/call/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ENDPOINT_NOT_FOUND")
}

func TestCallRejectsMalformedBody(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := do(t, srv, http.MethodPost, "/v1/services/github/call/getUser", `{"args":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PARAM_INVALID")
}

func TestCallRejectsNestedArgs(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := do(t, srv, http.MethodPost, "/v1/services/github/call/getUser", `{"args":{"filter":{"a":1}}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch(t *testing.T) {
	srv, _, batch := newTestServer()
	rec := do(t, srv, http.MethodPost, "/v1/services/github/batch/getUser",
		`{"argSets":[{"id":1},{"id":2}],"stopOnError":true}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, batch.last.ArgSets, 2)
	assert.True(t, batch.last.StopOnError)
	assert.Equal(t, "getUser", batch.last.Endpoint)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(domain.KindAPITimeout))
	assert.Equal(t, http.StatusBadGateway, statusFor(domain.KindAPIRequestFailed))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(domain.KindEnvVarNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.KindInternal))
}
