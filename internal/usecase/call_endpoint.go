package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/ast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
	"github.com/aalvaropc/apix/internal/usecase/auth"
	"github.com/aalvaropc/apix/internal/usecase/params"
	"github.com/aalvaropc/apix/internal/usecase/transform"
)

const defaultCallTimeout = 30 * time.Second

// CallEndpoint runs one endpoint call:
// resolve, map, cache check, authenticate, execute, transform, cache store.
type CallEndpoint struct {
	services ports.ServiceLoader
	executor ports.RequestExecutor

	cache    ports.CacheStore
	cacheKey func(domain.CacheKeyInput) string

	resolver *domain.EnvResolver
	timeout  time.Duration
	debug    io.Writer
	log      *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
	newID    func() string
}

type CallOption func(*CallEndpoint)

// WithCache enables response caching. key fingerprints a request.
func WithCache(store ports.CacheStore, key func(domain.CacheKeyInput) string) CallOption {
	return func(uc *CallEndpoint) {
		uc.cache = store
		uc.cacheKey = key
	}
}

// WithResolver sets the environment snapshot used for ${NAME} placeholders.
func WithResolver(r *domain.EnvResolver) CallOption {
	return func(uc *CallEndpoint) { uc.resolver = r }
}

// WithDefaultTimeout applies when a call does not carry its own timeout.
func WithDefaultTimeout(d time.Duration) CallOption {
	return func(uc *CallEndpoint) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

// WithDebugWriter receives redacted request/response traces for calls made
// with Options.Debug.
func WithDebugWriter(w io.Writer) CallOption {
	return func(uc *CallEndpoint) { uc.debug = w }
}

func WithLogger(l *slog.Logger) CallOption {
	return func(uc *CallEndpoint) {
		if l != nil {
			uc.log = l
		}
	}
}

func WithTracer(t trace.Tracer) CallOption {
	return func(uc *CallEndpoint) {
		if t != nil {
			uc.tracer = t
		}
	}
}

func WithClock(now func() time.Time) CallOption {
	return func(uc *CallEndpoint) {
		if now != nil {
			uc.now = now
		}
	}
}

func WithRequestIDs(gen func() string) CallOption {
	return func(uc *CallEndpoint) {
		if gen != nil {
			uc.newID = gen
		}
	}
}

func NewCallEndpoint(sl ports.ServiceLoader, ex ports.RequestExecutor, opts ...CallOption) *CallEndpoint {
	uc := &CallEndpoint{
		services: sl,
		executor: ex,
		resolver: domain.NewEnvResolver(nil),
		timeout:  defaultCallTimeout,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		tracer:   otel.Tracer("github.com/aalvaropc/apix/usecase"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

var _ ports.EndpointCaller = (*CallEndpoint)(nil)

// Call never returns a Go error: every failure is folded into the result.
func (uc *CallEndpoint) Call(ctx context.Context, req domain.CallRequest) domain.CallResult {
	start := uc.now()
	id := uc.newID()

	ctx, span := uc.tracer.Start(ctx, "apix.call", trace.WithAttributes(
		attribute.String("apix.service", req.Service),
		attribute.String("apix.endpoint", req.Endpoint),
		attribute.String("apix.request_id", id),
	))
	defer span.End()

	log := uc.log.With("request_id", id, "service", req.Service, "endpoint", req.Endpoint)
	log.Debug("call.start", "args", req.Args.Keys(), "no_cache", req.Options.NoCache)

	c := &call{uc: uc, req: req, log: log}
	data, err := c.run(ctx)

	meta := domain.CallMetadata{
		Timestamp:  start.UTC(),
		StatusCode: c.status,
		Cached:     c.cached,
		DurationMS: uc.now().Sub(start).Milliseconds(),
		RequestID:  id,
		Service:    req.Service,
		Endpoint:   req.Endpoint,
	}

	if err != nil {
		if meta.StatusCode == 0 {
			meta.StatusCode = statusFromError(err)
		}
		re := domain.ToResultError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, re.Code)
		log.Warn("call.failed", "code", re.Code, "message", re.Message, "duration_ms", meta.DurationMS)
		return domain.CallResult{Success: false, Error: re, Metadata: meta}
	}

	span.SetAttributes(
		attribute.Bool("apix.cached", meta.Cached),
		attribute.Int("http.status_code", meta.StatusCode),
	)
	log.Info("call.done", "status", meta.StatusCode, "cached", meta.Cached, "duration_ms", meta.DurationMS)
	return domain.CallResult{Success: true, Data: data, Metadata: meta}
}

// call carries the state of one invocation through the pipeline.
type call struct {
	uc  *CallEndpoint
	req domain.CallRequest
	log *slog.Logger

	status int
	cached bool
}

func (c *call) run(ctx context.Context) (any, error) {
	uc := c.uc

	// Resolving
	svc, err := uc.services.LoadService(ctx, c.req.Service)
	if err != nil {
		return nil, err
	}
	ep, alias, err := selectEndpoint(svc, c.req.Endpoint)
	if err != nil {
		return nil, err
	}
	target, err := c.resolve(svc, ep, alias)
	if err != nil {
		return nil, err
	}

	// Mapping
	mapped, err := params.Map(target.ep, target.args, c.req.Options.Hints)
	if err != nil {
		return nil, err
	}
	pipeline, err := transform.Compile(target.ep.Transform)
	if err != nil {
		return nil, err
	}

	cacheable := false
	if target.ep.IsGraphQL() {
		op, err := graphqlOperation(target.ep.GraphQL)
		if err != nil {
			return nil, err
		}
		cacheable = op == ast.Query
	} else {
		cacheable = target.ep.Method == domain.MethodGet
	}
	cacheable = cacheable && target.ep.CacheTTL > 0 && !c.req.Options.NoCache && uc.cache != nil && uc.cacheKey != nil

	httpReq := buildHTTPRequest(target, mapped)

	// CacheCheck: the fingerprint is taken before credentials are attached.
	var key string
	if cacheable {
		key = uc.cacheKey(domain.CacheKeyInput{
			Service:          target.svc.Name,
			Endpoint:         target.ep.Name,
			Method:           httpReq.Method,
			URL:              httpReq.URL,
			Body:             httpReq.Body,
			Headers:          httpReq.Headers,
			SensitiveHeaders: []string{auth.HeaderName(target.svc.Auth)},
		})
		entry, ok, err := uc.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.log.Warn("call.cache.read_failed", "key", key, "err", err)
		case ok:
			c.cached = true
			c.status = 200
			c.log.Debug("call.cache.hit", "key", key)
			c.trace("cache hit %s", key)
			return entry.Value, nil
		default:
			c.log.Debug("call.cache.miss", "key", key)
		}
	}

	// Authenticating
	authed, err := auth.Apply(target.svc.Auth, mapped)
	if err != nil {
		return nil, err
	}
	httpReq = buildHTTPRequest(target, authed)

	// Executing
	timeout := c.req.Options.Timeout
	if timeout <= 0 {
		timeout = uc.timeout
	}
	c.traceRequest(target, httpReq)
	resp, err := uc.executor.Execute(ctx, httpReq, timeout)
	if err != nil {
		c.traceError(err)
		return nil, err
	}
	c.status = resp.Status
	c.traceResponse(resp)

	data := resp.Data
	if target.ep.IsGraphQL() {
		if data, err = unwrapGraphQL(resp.Status, data); err != nil {
			return nil, err
		}
	}

	// Transforming
	data = pipeline.Run(ctx, data)

	// CacheStore
	if cacheable && resp.Status == 200 {
		entry := domain.CacheEntry{
			Key:       key,
			Value:     data,
			Timestamp: uc.now().UTC(),
			TTL:       target.ep.CacheTTL,
			Metadata: domain.CacheMetadata{
				Service:  target.svc.Name,
				Endpoint: target.ep.Name,
				URL:      auth.RedactQuery(httpReq.URL, apiKeyParam(target.svc.Auth)),
			},
		}
		if err := uc.cache.Set(ctx, entry); err != nil {
			c.log.Warn("call.cache.write_failed", "key", key, "err", err)
		} else {
			c.log.Debug("call.cache.stored", "key", key, "ttl", entry.TTL)
		}
	}

	return data, nil
}

// resolvedTarget is the service and endpoint with placeholders substituted.
type resolvedTarget struct {
	svc  domain.ServiceConfig
	ep   domain.EndpointConfig
	args domain.Args
}

// resolve substitutes ${NAME} only in the parts this call touches, so an
// unrelated endpoint with a missing variable does not break it. Alias args
// are defaults: runtime args always win.
func (c *call) resolve(svc domain.ServiceConfig, ep domain.EndpointConfig, alias *domain.AliasConfig) (resolvedTarget, error) {
	r := c.uc.resolver
	out := resolvedTarget{svc: svc, args: c.req.Args}

	var err error
	if alias != nil {
		defaults, err := r.ResolveArgs(alias.Args)
		if err != nil {
			return resolvedTarget{}, err
		}
		out.args = domain.MergeArgs(defaults, c.req.Args)
	}
	if out.svc.BaseURL, err = r.ResolveString(svc.BaseURL); err != nil {
		return resolvedTarget{}, err
	}
	if ep.IsGraphQL() {
		if out.svc.GraphQLEndpoint, err = r.ResolveString(svc.GraphQLEndpoint); err != nil {
			return resolvedTarget{}, err
		}
	}
	if svc.Auth != nil {
		a := *svc.Auth
		if a.Token, err = r.ResolveString(a.Token); err != nil {
			return resolvedTarget{}, err
		}
		if a.Header, err = r.ResolveString(a.Header); err != nil {
			return resolvedTarget{}, err
		}
		out.svc.Auth = &a
	}
	if out.ep, err = r.ResolveEndpoint(ep); err != nil {
		return resolvedTarget{}, err
	}
	return out, nil
}

// selectEndpoint finds an endpoint by name, falling back to aliases.
func selectEndpoint(svc domain.ServiceConfig, name string) (domain.EndpointConfig, *domain.AliasConfig, error) {
	if ep, ok := svc.Endpoint(name); ok {
		return ep, nil, nil
	}
	if al, ok := svc.Alias(name); ok {
		if ep, ok := svc.Endpoint(al.Endpoint); ok {
			return ep, &al, nil
		}
	}

	available := make([]string, 0, len(svc.Endpoints)+len(svc.Aliases))
	for _, ep := range svc.Endpoints {
		available = append(available, ep.Name)
	}
	for _, al := range svc.Aliases {
		available = append(available, al.Name)
	}
	sort.Strings(available)

	return domain.EndpointConfig{}, nil, &domain.OpError{
		Op:   "call.resolve",
		Kind: domain.KindEndpointNotFound,
		Err:  fmt.Errorf("%w: endpoint %q in service %q", domain.ErrNotFound, name, svc.Name),
		Details: map[string]any{
			"service":   svc.Name,
			"endpoint":  name,
			"available": available,
		},
	}
}

func buildHTTPRequest(t resolvedTarget, m domain.MappedRequest) domain.HTTPRequest {
	req := domain.HTTPRequest{
		Method:  t.ep.Method,
		Headers: m.Headers,
	}

	if t.ep.IsGraphQL() {
		base := t.svc.GraphQLEndpoint
		if base == "" || t.ep.Path != "" {
			base = joinURL(t.svc.BaseURL, m.Path)
		}
		req.Method = domain.MethodPost
		req.URL = withQuery(base, m.Query)
		req.Body = graphqlEnvelope(t.ep.GraphQL, m.Variables)
		return req
	}

	req.URL = withQuery(joinURL(t.svc.BaseURL, m.Path), m.Query)
	if m.Body != nil {
		req.Body = m.Body
	}
	return req
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func withQuery(rawURL string, q url.Values) string {
	if len(q) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + q.Encode()
}

func apiKeyParam(cfg *domain.AuthConfig) string {
	if cfg == nil || cfg.Type != domain.AuthAPIKey || cfg.Location != domain.AuthInQuery {
		return ""
	}
	if p := strings.TrimSpace(cfg.QueryParam); p != "" {
		return p
	}
	return domain.DefaultAPIKeyParam
}

func statusFromError(err error) int {
	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return 0
	}
	if s, ok := oe.Details["status"].(int); ok {
		return s
	}
	return 0
}

func (c *call) trace(format string, args ...any) {
	if !c.req.Options.Debug || c.uc.debug == nil {
		return
	}
	fmt.Fprintf(c.uc.debug, "[apix] "+format+"\n", args...)
}

func (c *call) traceRequest(t resolvedTarget, req domain.HTTPRequest) {
	if !c.req.Options.Debug || c.uc.debug == nil {
		return
	}
	extra := auth.HeaderName(t.svc.Auth)
	c.trace("> %s %s", req.Method, auth.RedactQuery(req.URL, apiKeyParam(t.svc.Auth)))

	headers := auth.RedactHeaders(req.Headers, extra)
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		c.trace("> %s: %s", k, headers[k])
	}
	if req.Body != nil {
		if b, err := json.Marshal(req.Body); err == nil {
			c.trace("> %s", b)
		}
	}
}

func (c *call) traceResponse(resp domain.HTTPResponse) {
	c.trace("< %d in %dms", resp.Status, resp.Duration.Milliseconds())
}

func (c *call) traceError(err error) {
	c.trace("< error %s", domain.KindOf(err))
}
