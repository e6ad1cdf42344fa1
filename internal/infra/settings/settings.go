// Package settings loads engine settings from apix.yaml files and APIX_* variables.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/infra/configdirs"
)

const (
	FileName  = "apix.yaml"
	EnvPrefix = "APIX_"
)

// Load layers defaults, <global>/apix.yaml, <local>/apix.yaml and APIX_*
// variables, in that order. Empty directories are derived from dirs.Global.
func Load(dirs configdirs.Dirs) (domain.Settings, error) {
	k := koanf.New(".")

	for _, root := range []string{dirs.Global, dirs.Local} {
		if root == "" {
			continue
		}
		path := filepath.Join(root, FileName)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return domain.Settings{}, &domain.OpError{
				Op:   "settings.load",
				Kind: domain.KindConfigInvalid,
				Path: path,
				Err:  err,
			}
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return domain.Settings{}, &domain.OpError{
				Op:   "settings.load",
				Kind: domain.KindConfigParse,
				Path: path,
				Err:  err,
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return domain.Settings{}, &domain.OpError{
			Op:   "settings.load",
			Kind: domain.KindConfigInvalid,
			Err:  err,
		}
	}

	// Unmarshal on top of defaults so missing keys keep their default value.
	cfg := domain.DefaultSettings()
	if err := k.Unmarshal("", &cfg); err != nil {
		return domain.Settings{}, &domain.OpError{
			Op:   "settings.unmarshal",
			Kind: domain.KindConfigInvalid,
			Err:  err,
		}
	}

	applyDerived(&cfg, dirs)
	if err := validate(cfg); err != nil {
		return domain.Settings{}, err
	}
	return cfg, nil
}

func applyDerived(cfg *domain.Settings, dirs configdirs.Dirs) {
	if cfg.Paths.Global == "" {
		cfg.Paths.Global = dirs.Global
	}
	if cfg.Paths.Local == "" {
		cfg.Paths.Local = dirs.Local
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(cfg.Paths.Global, "cache")
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(cfg.Paths.Global, "logs")
	}
	cfg.Cache.Backend = domain.CacheBackend(strings.ToLower(strings.TrimSpace(string(cfg.Cache.Backend))))
}

func validate(cfg domain.Settings) error {
	switch cfg.Cache.Backend {
	case domain.CacheFile, domain.CacheSQLite, domain.CacheRedis, domain.CacheNone:
	default:
		return &domain.OpError{
			Op:   "settings.validate",
			Kind: domain.KindConfigInvalid,
			Err:  fmt.Errorf("%w: cache.backend must be file, sqlite, redis or none (got %q)", domain.ErrInvalidConfig, cfg.Cache.Backend),
		}
	}
	if cfg.HTTP.Timeout <= 0 {
		return &domain.OpError{
			Op:   "settings.validate",
			Kind: domain.KindConfigInvalid,
			Err:  fmt.Errorf("%w: http.timeout must be positive", domain.ErrInvalidConfig),
		}
	}
	return nil
}
