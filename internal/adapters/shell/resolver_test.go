package shell_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/runq/internal/adapters/shell"
	"go.trai.ch/runq/internal/core/domain"
)

func writeTool(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, name)
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho success\n"), 0o700))
	return path
}

func TestResolver_LookPath_SearchesPathInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeTool(t, second, "my-tool")
	want := writeTool(t, first, "my-tool")

	env := map[string]string{"PATH": first + string(os.PathListSeparator) + second}
	got, err := shell.NewResolver().LookPath("my-tool", env, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolver_LookPath_RelativeEntriesUseDir(t *testing.T) {
	root := t.TempDir()
	want := writeTool(t, filepath.Join(root, "node_modules", ".bin"), "local-tool")

	env := map[string]string{"PATH": "node_modules/.bin" + string(os.PathListSeparator) + os.Getenv("PATH")}
	got, err := shell.NewResolver().LookPath("local-tool", env, root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolver_LookPath_NotFound(t *testing.T) {
	env := map[string]string{"PATH": t.TempDir()}
	_, err := shell.NewResolver().LookPath("nonexistent-binary-xyz", env, "")
	require.ErrorIs(t, err, domain.ErrExecutableNotFound)
	require.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "nonexistent-binary-xyz")
}

func TestResolver_LookPath_EmptyPath(t *testing.T) {
	_, err := shell.NewResolver().LookPath("sh", map[string]string{}, "")
	require.ErrorIs(t, err, domain.ErrExecutableNotFound)
}

func TestResolver_LookPath_SkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain"), []byte("data"), 0o600))

	_, err := shell.NewResolver().LookPath("plain", map[string]string{"PATH": dir}, "")
	require.ErrorIs(t, err, domain.ErrExecutableNotFound)
}

func TestResolver_LookPath_ExplicitRelativePath(t *testing.T) {
	root := t.TempDir()
	want := writeTool(t, filepath.Join(root, "bin"), "tool")

	got, err := shell.NewResolver().LookPath("./bin/tool", map[string]string{}, root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
