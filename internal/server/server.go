package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aalvaropc/apix/internal/ports"
)

// Deps are the engine entry points exposed over HTTP.
type Deps struct {
	Services ports.ServiceLoader
	Caller   ports.EndpointCaller
	Batch    ports.BatchRunner
	Version  string
}

type Server struct {
	Router *chi.Mux
	Addr   string
	logger *slog.Logger
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "apix-serve")
	})

	h := &handlers{deps: deps, logger: logger}
	r.Get("/healthz", h.health)
	r.Route("/v1/services", func(r chi.Router) {
		r.Get("/", h.listServices)
		r.Post("/{service}/call/{endpoint}", h.call)
		r.Post("/{service}/batch/{endpoint}", h.batch)
	})

	return &Server{
		Router: r,
		Addr:   addr,
		logger: logger,
	}
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.start", slog.String("addr", s.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server.shutdown")
		return srv.Shutdown(shutdownCtx)
	}
}
