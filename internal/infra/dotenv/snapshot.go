// Package dotenv captures the environment used to resolve ${NAME} placeholders.
package dotenv

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aalvaropc/apix/internal/domain"
)

// Snapshot is an immutable copy of the process environment plus .env overlays.
type Snapshot struct {
	vars map[string]string
}

// Load captures environ (usually os.Environ()) and then reads each file.
// Process variables always win; a file only adds keys that are not set yet,
// and earlier files win over later ones. Missing files are skipped.
func Load(environ []string, files ...string) (*Snapshot, error) {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}

	for _, f := range files {
		if strings.TrimSpace(f) == "" {
			continue
		}
		fileVars, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, &domain.OpError{
				Op:   "dotenv.read",
				Kind: domain.KindConfigParse,
				Path: f,
				Err:  err,
			}
		}
		for k, v := range fileVars {
			if _, set := vars[k]; !set {
				vars[k] = v
			}
		}
	}

	return &Snapshot{vars: vars}, nil
}

// FromMap builds a snapshot from a fixed set of variables.
func FromMap(vars map[string]string) *Snapshot {
	cp := make(map[string]string, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return &Snapshot{vars: cp}
}

// Lookup implements domain.EnvLookup.
func (s *Snapshot) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.vars[name]
	return v, ok
}

// Resolver returns an EnvResolver bound to this snapshot.
func (s *Snapshot) Resolver() *domain.EnvResolver {
	return domain.NewEnvResolver(s.Lookup)
}
