// Package configdirs locates the user-global and project-local apix roots.
package configdirs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aalvaropc/apix/internal/domain"
)

// DirName is the directory that marks an apix root.
const DirName = ".apix"

// Dirs holds the two search roots. Local is empty when no project root exists.
type Dirs struct {
	Global string
	Local  string
}

// Finder locates a project-local .apix directory by searching upward.
type Finder struct {
	DirName string // defaults to ".apix"
}

func NewFinder() *Finder {
	return &Finder{DirName: DirName}
}

// FindRoot returns the nearest <dir>/.apix at or above startDir.
func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "configdirs.findroot",
			Kind: domain.KindConfigInvalid,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "configdirs.findroot",
			Kind: domain.KindInternal,
			Err:  err,
		}
	}

	// If user passes a file path, use its directory.
	info, statErr := os.Stat(abs)
	if statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		candidate := filepath.Join(cur, f.DirName)
		if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root.
			return "", &domain.OpError{
				Op:   "configdirs.findroot",
				Kind: domain.KindInternal,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// Resolve picks the global root (override, else ~/.apix) and the nearest
// local root above cwd. A local match equal to the global root is ignored.
func Resolve(cwd, globalOverride string) (Dirs, error) {
	global := globalOverride
	if global == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Dirs{}, &domain.OpError{
				Op:   "configdirs.resolve",
				Kind: domain.KindConfigInvalid,
				Err:  fmt.Errorf("cannot determine home directory: %w", err),
			}
		}
		global = filepath.Join(home, DirName)
	}
	global = filepath.Clean(global)

	dirs := Dirs{Global: global}
	if cwd == "" {
		return dirs, nil
	}

	local, err := NewFinder().FindRoot(cwd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return dirs, nil
		}
		return Dirs{}, err
	}
	if sameDir(local, global) {
		return dirs, nil
	}
	dirs.Local = local
	return dirs, nil
}

func sameDir(a, b string) bool {
	ea, err1 := filepath.EvalSymlinks(a)
	eb, err2 := filepath.EvalSymlinks(b)
	if err1 == nil && err2 == nil {
		return ea == eb
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
