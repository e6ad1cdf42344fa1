package configdirs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/apix/internal/domain"
)

func TestFindRoot_FindsApixDirFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "project")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".apix", "services"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := NewFinder().FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if want := filepath.Join(root, ".apix"); got != want {
		t.Fatalf("expected root=%s, got=%s", want, got)
	}
}

func TestFindRoot_IgnoresApixFile(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, ".apix"), []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewFinder().FindRoot(tmp)
	if err == nil {
		// A real ~/.apix somewhere above the temp dir would also be acceptable.
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestResolve_LocalAndGlobal(t *testing.T) {
	tmp := t.TempDir()
	global := filepath.Join(tmp, "home", ".apix")
	project := filepath.Join(tmp, "work", "proj")
	if err := os.MkdirAll(global, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(project, ".apix"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	dirs, err := Resolve(project, global)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if dirs.Global != global {
		t.Fatalf("expected global=%s, got=%s", global, dirs.Global)
	}
	if dirs.Local != filepath.Join(project, ".apix") {
		t.Fatalf("unexpected local %q", dirs.Local)
	}
}

func TestResolve_LocalEqualToGlobalIsDropped(t *testing.T) {
	tmp := t.TempDir()
	home := filepath.Join(tmp, "home")
	global := filepath.Join(home, ".apix")
	if err := os.MkdirAll(filepath.Join(home, "code"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(global, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	dirs, err := Resolve(filepath.Join(home, "code"), global)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if dirs.Local != "" {
		t.Fatalf("expected no local root, got %q", dirs.Local)
	}
}
