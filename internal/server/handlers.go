package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/aalvaropc/apix/internal/domain"
)

type handlers struct {
	deps   Deps
	logger *slog.Logger
}

type hintsBody struct {
	Header []string `json:"header"`
	Query  []string `json:"query"`
	Body   []string `json:"body"`
}

type optionsBody struct {
	NoCache   bool      `json:"noCache"`
	TimeoutMS int64     `json:"timeoutMs"`
	Hints     hintsBody `json:"hints"`
}

func (o optionsBody) toDomain() domain.CallOptions {
	return domain.CallOptions{
		NoCache: o.NoCache,
		Timeout: time.Duration(o.TimeoutMS) * time.Millisecond,
		Hints: domain.ParamHints{
			Header: o.Hints.Header,
			Query:  o.Hints.Query,
			Body:   o.Hints.Body,
		},
	}
}

type callBody struct {
	Args    map[string]any `json:"args"`
	Options optionsBody    `json:"options"`
}

type batchBody struct {
	ArgSets     []map[string]any `json:"argSets"`
	StopOnError bool             `json:"stopOnError"`
	Options     optionsBody      `json:"options"`
}

type serviceRef struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Scope string `json:"scope"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.deps.Version})
}

func (h *handlers) listServices(w http.ResponseWriter, r *http.Request) {
	refs, err := h.deps.Services.ListServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]serviceRef, 0, len(refs))
	for _, ref := range refs {
		out = append(out, serviceRef{Name: ref.Name, Path: ref.Path, Scope: string(ref.Scope)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": out})
}

func (h *handlers) call(w http.ResponseWriter, r *http.Request) {
	var body callBody
	if !decodeBody(w, r, &body) {
		return
	}
	args, err := domain.ArgsFromAny(body.Args)
	if err != nil {
		writeError(w, err)
		return
	}

	res := h.deps.Caller.Call(r.Context(), domain.CallRequest{
		Service:  chi.URLParam(r, "service"),
		Endpoint: chi.URLParam(r, "endpoint"),
		Args:     args,
		Options:  body.Options.toDomain(),
	})
	status := http.StatusOK
	if !res.Success && res.Error != nil {
		status = statusFor(domain.ErrorKind(res.Error.Code))
	}
	writeJSON(w, status, res)
}

func (h *handlers) batch(w http.ResponseWriter, r *http.Request) {
	var body batchBody
	if !decodeBody(w, r, &body) {
		return
	}

	sets := make([]domain.Args, 0, len(body.ArgSets))
	for i, raw := range body.ArgSets {
		args, err := domain.ArgsFromAny(raw)
		if err != nil {
			writeError(w, fmt.Errorf("argSets[%d]: %w", i, err))
			return
		}
		sets = append(sets, args)
	}

	res := h.deps.Batch.Run(r.Context(), domain.BatchRequest{
		Service:     chi.URLParam(r, "service"),
		Endpoint:    chi.URLParam(r, "endpoint"),
		ArgSets:     sets,
		StopOnError: body.StopOnError,
		Options:     body.Options.toDomain(),
	})
	writeJSON(w, http.StatusOK, res)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, &domain.OpError{
			Op:   "server.decode",
			Kind: domain.KindParamInvalid,
			Err:  fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err),
		})
		return false
	}
	return true
}

// statusFor maps an error kind onto the HTTP status of the apix response.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindServiceNotFound, domain.KindEndpointNotFound:
		return http.StatusNotFound
	case domain.KindParamRequired, domain.KindParamInvalid:
		return http.StatusBadRequest
	case domain.KindAPITimeout:
		return http.StatusGatewayTimeout
	case domain.KindAPIRequestFailed, domain.KindAPIResponseInvalid:
		return http.StatusBadGateway
	case domain.KindConfigInvalid, domain.KindConfigParse, domain.KindEnvVarNotFound,
		domain.KindAuthMissing, domain.KindAuthInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	re := domain.ToResultError(err)
	writeJSON(w, statusFor(domain.ErrorKind(re.Code)), map[string]any{"success": false, "error": re})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
