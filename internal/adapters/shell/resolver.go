package shell

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ExecutableResolver = (*Resolver)(nil)

// Resolver implements ports.ExecutableResolver over a caller supplied environment.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// LookPath searches for name in the directories named by env's PATH.
// Names containing a path separator are checked directly, relative to dir.
func (r *Resolver) LookPath(name string, env map[string]string, dir string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		candidate := name
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(dir, candidate)
		}
		if err := findExecutable(candidate); err != nil {
			return "", notFound(name, err)
		}
		return candidate, nil
	}

	path := env[domain.SearchPathKey]
	if path == "" {
		return "", notFound(name, exec.ErrNotFound)
	}

	for _, entry := range filepath.SplitList(path) {
		if entry == "" {
			// Unix shell semantics: path element "" means "."
			entry = "."
		}
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(dir, entry)
		}
		candidate := filepath.Join(entry, name)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", notFound(name, exec.ErrNotFound)
}

func notFound(name string, err error) error {
	return errors.Join(domain.ErrExecutableNotFound, zerr.With(zerr.Wrap(err, "failed to locate executable"), "command", name))
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
