package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/pkg/types"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	// Use in-memory database for testing
	store, err := OpenMemory()
	require.NoError(t, err)
	require.NotNil(t, store)
	return store
}

func sampleFunction(name string) *types.FunctionEntry {
	return &types.FunctionEntry{
		Name:      name,
		FilePath:  "/repo/src/app.ts",
		Body:      "function " + name + "() { return 1; }",
		StartLine: 10,
		EndLine:   12,
	}
}

func TestOpenMemory(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	assert.NotNil(t, store.db)
	assert.Equal(t, ":memory:", store.Path())
}

func TestOpenCreatesCacheDir(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "indices")

	store, err := Open(cacheDir, "git:abcdef0123456789")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, filepath.Join(cacheDir, "git_abcdef0123456789.db"), store.Path())
}

func TestStorePathFlattensFingerprint(t *testing.T) {
	path := StorePath("/cache", "dir:00ff00ff00ff00ff")
	assert.Equal(t, filepath.Join("/cache", "dir_00ff00ff00ff00ff.db"), path)
}

func TestIsEmptyAndCounts(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	err = store.InsertFunction(ctx, sampleFunction("run"))
	require.NoError(t, err)

	empty, err = store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)

	functions, classes, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, functions)
	assert.Equal(t, 0, classes)
}

func TestInsertFunctionAssignsID(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	entry := sampleFunction("run")

	err := store.InsertFunction(ctx, entry)
	require.NoError(t, err)
	assert.Greater(t, entry.ID, int64(0))
}

func TestQueryFunctionsByName(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	free := sampleFunction("run")
	require.NoError(t, store.InsertFunction(ctx, free))

	method := sampleFunction("run")
	method.FilePath = "/repo/src/worker.ts"
	method.ParentClass = "Worker"
	require.NoError(t, store.InsertFunction(ctx, method))

	other := sampleFunction("stop")
	require.NoError(t, store.InsertFunction(ctx, other))

	entries, err := store.QueryFunctionsByName(ctx, "run")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ordered by file path
	assert.Equal(t, "/repo/src/app.ts", entries[0].FilePath)
	assert.False(t, entries[0].IsMethod())
	assert.Equal(t, "Worker", entries[1].ParentClass)
	assert.True(t, entries[1].IsMethod())

	entries, err = store.QueryFunctionsByName(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQueryClassesByName(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	entry := &types.ClassEntry{
		Name:      "Worker",
		FilePath:  "/repo/src/worker.ts",
		Body:      "class Worker { ... }",
		StartLine: 1,
		EndLine:   20,
		Fields:    []string{"queue", "active"},
		Methods:   []string{"run", "stop"},
	}
	require.NoError(t, store.InsertClass(ctx, entry))
	assert.Greater(t, entry.ID, int64(0))

	entries, err := store.QueryClassesByName(ctx, "Worker")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"queue", "active"}, entries[0].Fields)
	assert.Equal(t, []string{"run", "stop"}, entries[0].Methods)

	entries, err = store.QueryClassesByName(ctx, "Manager")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClassWithNoFieldsRoundTrips(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	entry := &types.ClassEntry{
		Name:      "Empty",
		FilePath:  "/repo/src/empty.ts",
		Body:      "class Empty {}",
		StartLine: 1,
		EndLine:   1,
	}
	require.NoError(t, store.InsertClass(ctx, entry))

	entries, err := store.QueryClassesByName(ctx, "Empty")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Fields)
	assert.Empty(t, entries[0].Methods)
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.InsertFunction(ctx, sampleFunction("run")))
	require.NoError(t, store.InsertClass(ctx, &types.ClassEntry{
		Name: "Worker", FilePath: "/repo/src/worker.ts", Body: "class Worker {}",
		StartLine: 1, EndLine: 1,
	}))

	require.NoError(t, store.Clear(ctx))

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestTransactionCommit(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.InsertFunction(ctx, sampleFunction("run")))
	require.NoError(t, tx.Commit())

	functions, _, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, functions)
}

func TestTransactionRollback(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.InsertFunction(ctx, sampleFunction("run")))
	require.NoError(t, tx.Rollback())

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestNestedTransactionRejected(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
}

func TestReopenPersists(t *testing.T) {
	cacheDir := t.TempDir()
	ctx := context.Background()

	store, err := Open(cacheDir, "dir:1111222233334444")
	require.NoError(t, err)
	require.NoError(t, store.InsertFunction(ctx, sampleFunction("run")))
	require.NoError(t, store.Close())

	reopened, err := Open(cacheDir, "dir:1111222233334444")
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	empty, err := reopened.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestSizeBytes(t *testing.T) {
	store := setupTestStore(t)
	defer func() { _ = store.Close() }()

	size, err := store.SizeBytes(context.Background())
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}
