package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/infra/cachestore"
	"github.com/aalvaropc/apix/internal/infra/configdirs"
	"github.com/aalvaropc/apix/internal/infra/dotenv"
	"github.com/aalvaropc/apix/internal/infra/httpclient"
	"github.com/aalvaropc/apix/internal/infra/logger"
	"github.com/aalvaropc/apix/internal/infra/serviceconfig"
	"github.com/aalvaropc/apix/internal/infra/settings"
	"github.com/aalvaropc/apix/internal/infra/telemetry"
	"github.com/aalvaropc/apix/internal/ports"
	"github.com/aalvaropc/apix/internal/usecase"
)

// engine is everything a command needs, built from settings.
type engine struct {
	settings domain.Settings
	env      *dotenv.Snapshot
	services *serviceconfig.Loader
	cache    ports.CacheStore
	caller   *usecase.CallEndpoint
	batch    *usecase.RunBatch

	closers []func() error
}

func openEngine(ctx context.Context, opts *rootOptions, stderr io.Writer) (*engine, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)

	dirs, err := configdirs.Resolve(wd, opts.configDir)
	if err != nil {
		return nil, err
	}

	cfg, err := settings.Load(dirs)
	if err != nil {
		return nil, err
	}
	if opts.debug {
		cfg.Log.Debug = true
	}

	e := &engine{settings: cfg}

	cleanup, _ := logger.Setup(logger.Config{
		Dir:   cfg.Log.Dir,
		Debug: cfg.Log.Debug,
	})
	if cleanup != nil {
		e.closers = append(e.closers, cleanup)
	}

	if opts.trace {
		shutdown, err := telemetry.InitTracer("apix", stderr, logger.L())
		if err != nil {
			e.close()
			return nil, err
		}
		e.closers = append(e.closers, func() error { return shutdown(context.Background()) })
	}

	env, err := dotenv.Load(os.Environ(), dotenvFiles(wd, cfg.Dotenv.Files)...)
	if err != nil {
		e.close()
		return nil, err
	}
	e.env = env

	e.services = serviceconfig.NewLoader(configdirs.Dirs{Global: cfg.Paths.Global, Local: cfg.Paths.Local})

	store, closeStore, err := cachestore.Open(ctx, cfg.Cache)
	if err != nil {
		// Caching is best effort; a broken backend must not block calls.
		logger.L().Warn("cache.open_failed", "backend", cfg.Cache.Backend, "err", err)
		store = cachestore.NoopStore{}
	} else {
		e.closers = append(e.closers, closeStore)
	}
	e.cache = store

	executor := httpclient.NewExecutor(httpclient.WithTimeout(cfg.HTTP.Timeout))
	e.caller = usecase.NewCallEndpoint(e.services, executor,
		usecase.WithCache(store, cachestore.GenerateKey),
		usecase.WithResolver(env.Resolver()),
		usecase.WithDefaultTimeout(cfg.HTTP.Timeout),
		usecase.WithDebugWriter(stderr),
		usecase.WithLogger(logger.L()),
		usecase.WithTracer(telemetry.Tracer()),
	)
	e.batch = usecase.NewRunBatch(e.caller)

	return e, nil
}

// close runs closers in reverse order; the logger goes last.
func (e *engine) close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// dotenvFiles makes relative .env paths relative to the working directory.
func dotenvFiles(wd string, files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		if !filepath.IsAbs(f) {
			f = filepath.Join(wd, f)
		}
		out = append(out, f)
	}
	return out
}
