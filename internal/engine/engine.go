// Package engine ties the index subsystems together: it fingerprints a
// repository, opens the store keyed by that fingerprint, builds the index
// if the store is empty, and serves lookups until closed.
//
// Lifecycle: Open computes the snapshot and opens storage synchronously;
// the caller holds a fully queryable engine when Open returns. Update
// forces a rebuild. Close releases the store; every operation after Close
// fails with a LifecycleError.
//
// Builds and queries are serialized with a read/write mutex so a query can
// never observe the transient state of a rebuild in progress.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codegraph/internal/indexer"
	"codegraph/internal/query"
	"codegraph/internal/snapshot"
	"codegraph/internal/storage"
	"codegraph/pkg/types"
)

// Options configures engine construction.
type Options struct {
	// CacheDir is the directory holding one store file per fingerprint.
	// Empty selects DefaultCacheDir().
	CacheDir string

	// Workers is the parse worker count; 0 selects runtime.NumCPU().
	Workers int
}

// DefaultCacheDir returns the per-user index cache directory.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".codegraph", "indices"), nil
}

// Engine is one open structural index for one repository content-state.
type Engine struct {
	snap    *types.CodebaseSnapshot
	store   *storage.SQLiteStore
	indexer *indexer.Indexer
	query   *query.Engine
	workers int

	buildLock indexer.BuildLock

	mu     sync.RWMutex // Serializes rebuilds against queries
	closed bool
}

// Status describes the engine's current index.
type Status struct {
	Fingerprint   string
	RepoPath      string
	StorePath     string
	IsGit         bool
	FunctionCount int
	ClassCount    int
	SizeBytes     int64
}

// Open fingerprints repoPath, opens or creates the store for that
// fingerprint, and builds the index if the store is empty. The store is
// released on every construction failure path.
func Open(ctx context.Context, repoPath string, opts Options) (*Engine, error) {
	snap, err := snapshot.Compute(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint repository: %w", err)
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir, err = DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}

	store, err := storage.Open(cacheDir, snap.Hash)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		snap:    snap,
		store:   store,
		indexer: indexer.New(store),
		query:   query.NewEngine(store),
		workers: opts.Workers,
	}

	empty, err := store.IsEmpty(ctx)
	if err != nil {
		_ = store.Close()
		return nil, types.NewStorageError(store.Path(), err)
	}
	if empty {
		if _, err := e.build(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return e, nil
}

// Snapshot returns the fingerprint computed at construction.
func (e *Engine) Snapshot() *types.CodebaseSnapshot {
	return e.snap
}

// Update forces a full rebuild of the index. A second Update while one is
// running fails with ErrIndexInProgress instead of queueing.
func (e *Engine) Update(ctx context.Context) (*indexer.Statistics, error) {
	if !e.buildLock.TryAcquire() {
		return nil, types.ErrIndexInProgress
	}
	defer e.buildLock.Release()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, &types.LifecycleError{Op: "update", Err: types.ErrEngineClosed}
	}
	return e.build(ctx)
}

// build runs the rebuild pipeline and purges the query cache. Callers hold
// the write lock (or are still inside construction).
func (e *Engine) build(ctx context.Context) (*indexer.Statistics, error) {
	var cfg *indexer.Config
	if e.workers > 0 {
		cfg = &indexer.Config{Workers: e.workers}
	}
	stats, err := e.indexer.Build(ctx, e.snap.Path, cfg)
	if err != nil {
		return nil, err
	}
	e.query.InvalidateCache()
	return stats, nil
}

// SearchFunction returns free-function definitions matching identifier.
func (e *Engine) SearchFunction(ctx context.Context, identifier string, printBody bool) (string, error) {
	return e.searchFunctions(ctx, identifier, query.KindFunction, printBody)
}

// SearchClassMethod returns method definitions matching identifier.
func (e *Engine) SearchClassMethod(ctx context.Context, identifier string, printBody bool) (string, error) {
	return e.searchFunctions(ctx, identifier, query.KindClassMethod, printBody)
}

func (e *Engine) searchFunctions(ctx context.Context, identifier string, kind query.Kind, printBody bool) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return "", &types.LifecycleError{Op: "search_function", Err: types.ErrEngineClosed}
	}
	return e.query.SearchFunctions(ctx, query.Request{
		Identifier: identifier,
		Kind:       kind,
		PrintBody:  printBody,
	})
}

// SearchClass returns class definitions matching identifier.
func (e *Engine) SearchClass(ctx context.Context, identifier string, printBody bool) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return "", &types.LifecycleError{Op: "search_class", Err: types.ErrEngineClosed}
	}
	return e.query.SearchClasses(ctx, query.Request{
		Identifier: identifier,
		PrintBody:  printBody,
	})
}

// Status reports entry counts and store metadata for the open index.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, &types.LifecycleError{Op: "status", Err: types.ErrEngineClosed}
	}

	functions, classes, err := e.store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	size, err := e.store.SizeBytes(ctx)
	if err != nil {
		return nil, err
	}

	return &Status{
		Fingerprint:   e.snap.Hash,
		RepoPath:      e.snap.Path,
		StorePath:     e.store.Path(),
		IsGit:         e.snap.IsGitRepository,
		FunctionCount: functions,
		ClassCount:    classes,
		SizeBytes:     size,
	}, nil
}

// Close releases the store connection. Close is terminal: the engine
// cannot be reused, and any later operation fails with a LifecycleError.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return &types.LifecycleError{Op: "close", Err: types.ErrEngineClosed}
	}
	e.closed = true
	return e.store.Close()
}
