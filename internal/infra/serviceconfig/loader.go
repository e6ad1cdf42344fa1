package serviceconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/infra/configdirs"
	"github.com/aalvaropc/apix/internal/ports"
)

// ServicesDir is the subdirectory of each config root holding service files.
const ServicesDir = "services"

// Loader reads service definitions from the global and local config roots.
// A local service shadows a global one with the same name.
type Loader struct {
	dirs        configdirs.Dirs
	servicesDir string
	validator   *Validator
}

type Option func(*Loader)

func WithServicesDir(name string) Option {
	return func(l *Loader) { l.servicesDir = name }
}

func NewLoader(dirs configdirs.Dirs, opts ...Option) *Loader {
	l := &Loader{
		dirs:        dirs,
		servicesDir: ServicesDir,
		validator:   NewValidator(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.ServiceLoader = (*Loader)(nil)

func (l *Loader) LoadService(ctx context.Context, name string) (domain.ServiceConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.ServiceConfig{}, err
	}

	name = strings.TrimSpace(name)
	refs, err := l.ListServices(ctx)
	if err != nil {
		return domain.ServiceConfig{}, err
	}
	for _, ref := range refs {
		if ref.Name == name {
			return LoadFile(ref.Path, l.validator)
		}
	}

	return domain.ServiceConfig{}, &domain.OpError{
		Op:      "serviceconfig.load",
		Kind:    domain.KindServiceNotFound,
		Err:     fmt.Errorf("%w: service %q", domain.ErrNotFound, name),
		Details: map[string]any{"service": name},
	}
}

// ListServices returns every visible service sorted by name.
// Missing roots are not an error.
func (l *Loader) ListServices(ctx context.Context) ([]domain.ServiceRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byName := map[string]domain.ServiceRef{}
	roots := []struct {
		dir   string
		scope domain.ServiceScope
	}{
		{l.dirs.Global, domain.ScopeGlobal},
		{l.dirs.Local, domain.ScopeLocal},
	}
	for _, r := range roots {
		if r.dir == "" {
			continue
		}
		refs, err := l.scan(filepath.Join(r.dir, l.servicesDir), r.scope)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			byName[ref.Name] = ref
		}
	}

	out := make([]domain.ServiceRef, 0, len(byName))
	for _, ref := range byName {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (l *Loader) scan(dir string, scope domain.ServiceScope) ([]domain.ServiceRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "serviceconfig.list",
			Kind: domain.KindConfigInvalid,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.ServiceRef
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		refs = append(refs, domain.ServiceRef{
			Name:  peekName(path),
			Path:  path,
			Scope: scope,
		})
	}
	return refs, nil
}

// LoadFile decodes, maps and validates one service file.
func LoadFile(path string, v *Validator) (domain.ServiceConfig, error) {
	if v == nil {
		v = NewValidator()
	}

	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindConfigInvalid
		if os.IsNotExist(err) {
			kind = domain.KindServiceNotFound
		}
		return domain.ServiceConfig{}, &domain.OpError{
			Op:   "serviceconfig.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}

	var ys YAMLService
	if err := yaml.Unmarshal(b, &ys); err != nil {
		return domain.ServiceConfig{}, &domain.OpError{
			Op:   "serviceconfig.load",
			Kind: domain.KindConfigParse,
			Path: path,
			Err:  err,
		}
	}

	if err := v.Struct(path, &ys); err != nil {
		return domain.ServiceConfig{}, err
	}

	svc, err := MapService(path, ys)
	if err != nil {
		return domain.ServiceConfig{}, err
	}

	if err := v.Semantics(svc); err != nil {
		return domain.ServiceConfig{}, err
	}
	return svc, nil
}

// peekName reads only serviceName; unreadable files fall back to the file
// stem so the real error surfaces on load.
func peekName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	b, err := os.ReadFile(path)
	if err != nil {
		return stem
	}
	var head struct {
		ServiceName string `yaml:"serviceName"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return stem
	}
	if n := strings.TrimSpace(head.ServiceName); n != "" {
		return n
	}
	return stem
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
