package walker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkVisitsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.ts"), []byte("x"), 0o644))

	var visited []string
	err := Walk(dir, func(path string) error {
		rel, _ := filepath.Rel(dir, path)
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.py", filepath.Join("sub", "b.ts")}, visited)
}

func TestWalkSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "config"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x"), 0o644))

	var visited []string
	err := Walk(dir, func(path string) error {
		visited = append(visited, filepath.Base(path))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, visited)
}

func TestWalkSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	if err := os.Symlink(target, filepath.Join(dir, "link.py")); err != nil {
		t.Skip("symlinks not supported")
	}

	var visited []string
	err := Walk(dir, func(path string) error {
		visited = append(visited, filepath.Base(path))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, visited)
}

func TestWalkCallbackErrorAborts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x"), 0o644))

	sentinel := errors.New("stop")
	err := Walk(dir, func(path string) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}
