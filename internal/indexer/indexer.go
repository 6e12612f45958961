package indexer

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"codegraph/internal/parser"
	"codegraph/internal/storage"
	"codegraph/internal/walker"
	"codegraph/pkg/types"
)

// Indexer coordinates the indexing pipeline: walk -> parse -> store
type Indexer struct {
	parser *parser.Parser
	store  storage.Store

	// Worker pool configuration
	workers int
}

// Config contains configuration for the indexer
type Config struct {
	Workers int // Number of concurrent parse workers (default: runtime.NumCPU())
}

// Statistics contains statistics about one build
type Statistics struct {
	FilesParsed   int
	FilesSkipped  int
	FunctionCount int
	ClassCount    int
	Duration      time.Duration
	ErrorMessages []string
}

// New creates a new Indexer instance
func New(store storage.Store) *Indexer {
	return &Indexer{
		parser:  parser.New(),
		store:   store,
		workers: runtime.NumCPU(),
	}
}

// Build clears the store and reindexes every recognized source file under
// root. Clear and reinsert run in one transaction: a concurrent reader of
// the store file sees either the previous index or the new one, never an
// empty or partial state.
func (idx *Indexer) Build(ctx context.Context, root string, config *Config) (*Statistics, error) {
	workers := idx.workers
	if config != nil && config.Workers > 0 {
		workers = config.Workers
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	files, err := idx.discoverFiles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	results, err := idx.parseFiles(ctx, files, workers, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to parse files: %w", err)
	}

	if err := idx.storeResults(ctx, results, stats); err != nil {
		return nil, fmt.Errorf("failed to store entries: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// discoverFiles walks the repository and returns every file with a
// supported extension. Unsupported extensions are silently skipped.
func (idx *Indexer) discoverFiles(root string) ([]string, error) {
	var files []string
	err := walker.Walk(root, func(path string) error {
		if _, ok := parser.LanguageFor(path); ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// parseFiles parses files concurrently with a bounded worker pool.
func (idx *Indexer) parseFiles(ctx context.Context, files []string, workers int, stats *Statistics) ([]*parser.Result, error) {
	semaphore := make(chan struct{}, workers)
	results := make([]*parser.Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protects stats

	for i, filePath := range files {
		select {
		case <-gctx.Done():
			return nil, gctx.Err()
		case semaphore <- struct{}{}:
		}

		g.Go(func() error {
			defer func() { <-semaphore }()

			res, err := idx.parseFile(filePath)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Per-file failures never abort a build.
				stats.FilesSkipped++
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
				return nil
			}
			results[i] = res
			stats.FilesParsed++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// parseFile reads and parses one file. Binary or undecodable content is
// reported as an error so the caller can skip the file.
func (idx *Indexer) parseFile(filePath string) (*parser.Result, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("file is not valid UTF-8")
	}

	lang, ok := parser.LanguageFor(filePath)
	if !ok {
		return nil, fmt.Errorf("unsupported extension")
	}

	return idx.parser.Parse(string(content), filePath, lang), nil
}

// storeResults clears the store and inserts all parsed entries in a single
// transaction.
func (idx *Indexer) storeResults(ctx context.Context, results []*parser.Result, stats *Statistics) error {
	tx, err := idx.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.Clear(ctx); err != nil {
		return err
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		for i := range res.Functions {
			if err := validateAndInsertFunction(ctx, tx, &res.Functions[i]); err != nil {
				return err
			}
			stats.FunctionCount++
		}
		for i := range res.Classes {
			if err := validateAndInsertClass(ctx, tx, &res.Classes[i]); err != nil {
				return err
			}
			stats.ClassCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func validateAndInsertFunction(ctx context.Context, tx storage.Tx, entry *types.FunctionEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid function entry %q: %w", entry.Name, err)
	}
	return tx.InsertFunction(ctx, entry)
}

func validateAndInsertClass(ctx context.Context, tx storage.Tx, entry *types.ClassEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid class entry %q: %w", entry.Name, err)
	}
	return tx.InsertClass(ctx, entry)
}
