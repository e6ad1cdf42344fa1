// Package fsworkspace scaffolds a project-local .apix root.
package fsworkspace

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/infra/configdirs"
)

//go:embed templates
var templatesFS embed.FS

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

// Init creates <projectRoot>/.apix with a sample service and settings file.
// Existing files are kept unless force is set. It returns the created root.
func (i *Initializer) Init(projectRoot string, force bool) (string, error) {
	root := filepath.Join(filepath.Clean(projectRoot), configdirs.DirName)

	if err := os.MkdirAll(filepath.Join(root, "services"), 0o755); err != nil {
		return "", initErr(root, err)
	}

	if err := ensureGitignore(projectRoot); err != nil {
		return "", initErr(filepath.Join(projectRoot, ".gitignore"), err)
	}

	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, filepath.FromSlash(rel))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, b, 0o644)
	})
	if err != nil {
		return "", initErr(root, err)
	}
	return root, nil
}

func initErr(path string, err error) error {
	return &domain.OpError{
		Op:   "fsworkspace.init",
		Kind: domain.KindInternal,
		Path: path,
		Err:  err,
	}
}

// ensureGitignore keeps machine-local state (cache, logs, .env) out of git.
func ensureGitignore(projectRoot string) error {
	const header = "# apix"
	entries := []string{
		".apix/cache/",
		".apix/logs/",
		".env",
	}

	path := filepath.Join(projectRoot, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
