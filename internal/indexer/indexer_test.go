package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/storage"
)

func setupFixtureRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"a.ts":     "class Foo { bar() { return 1; } }\n",
		"b.py":     "def baz():\n    return 42\n",
		"skip.txt": "not source\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func setupIndexer(t *testing.T) (*Indexer, *storage.SQLiteStore) {
	t.Helper()
	store, err := storage.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store), store
}

func TestBuildIndexesFixture(t *testing.T) {
	dir := setupFixtureRepo(t)
	idx, store := setupIndexer(t)
	ctx := context.Background()

	stats, err := idx.Build(ctx, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesParsed)
	assert.Equal(t, 0, stats.FilesSkipped)
	assert.Equal(t, 2, stats.FunctionCount)
	assert.Equal(t, 1, stats.ClassCount)
	assert.Empty(t, stats.ErrorMessages)
	assert.Greater(t, stats.Duration.Nanoseconds(), int64(0))

	entries, err := store.QueryFunctionsByName(ctx, "baz")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsMethod())

	entries, err = store.QueryFunctionsByName(ctx, "bar")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Foo", entries[0].ParentClass)

	classes, err := store.QueryClassesByName(ctx, "Foo")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, []string{"bar"}, classes[0].Methods)
}

func TestBuildReplacesPreviousIndex(t *testing.T) {
	dir := setupFixtureRepo(t)
	idx, store := setupIndexer(t)
	ctx := context.Background()

	_, err := idx.Build(ctx, dir, nil)
	require.NoError(t, err)

	// Rename baz to qux and rebuild
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"),
		[]byte("def qux():\n    return 42\n"), 0o644))

	_, err = idx.Build(ctx, dir, nil)
	require.NoError(t, err)

	stale, err := store.QueryFunctionsByName(ctx, "baz")
	require.NoError(t, err)
	assert.Empty(t, stale)

	fresh, err := store.QueryFunctionsByName(ctx, "qux")
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestBuildSkipsBinaryFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"),
		[]byte("def ok():\n    pass\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.py"),
		[]byte{0xff, 0xfe, 0x00, 0x80}, 0o644))

	idx, _ := setupIndexer(t)
	stats, err := idx.Build(context.Background(), dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesParsed)
	assert.Equal(t, 1, stats.FilesSkipped)
	require.Len(t, stats.ErrorMessages, 1)
	assert.Contains(t, stats.ErrorMessages[0], "bad.py")
}

func TestBuildEmptyRepository(t *testing.T) {
	idx, store := setupIndexer(t)
	ctx := context.Background()

	stats, err := idx.Build(ctx, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesParsed)
	assert.Equal(t, 0, stats.FunctionCount)

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestBuildWithSingleWorker(t *testing.T) {
	dir := setupFixtureRepo(t)
	idx, _ := setupIndexer(t)

	stats, err := idx.Build(context.Background(), dir, &Config{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesParsed)
}

func TestBuildLock(t *testing.T) {
	var lock BuildLock

	assert.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire())
	lock.Release()
	assert.True(t, lock.TryAcquire())
	lock.Release()
}
