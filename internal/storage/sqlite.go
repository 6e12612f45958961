package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codegraph/pkg/types"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// StorePath returns the database file path for a fingerprint inside the
// cache directory. Fingerprint prefixes like "git:" are flattened so the
// result is a valid file name on every platform.
func StorePath(cacheDir, fingerprint string) string {
	name := strings.ReplaceAll(fingerprint, ":", "_") + ".db"
	return filepath.Join(cacheDir, name)
}

// Open opens (or creates) the store for one fingerprint. The cache
// directory is created if absent. Failures are wrapped as a
// types.StorageError and are fatal to engine construction.
func Open(cacheDir, fingerprint string) (*SQLiteStore, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, types.NewStorageError(cacheDir, fmt.Errorf("failed to create cache directory: %w", err))
	}
	return openAt(StorePath(cacheDir, fingerprint))
}

// OpenMemory opens an in-memory store, used by tests.
func OpenMemory() (*SQLiteStore, error) {
	return openAt(":memory:")
}

func openAt(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, types.NewStorageError(dbPath, err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, types.NewStorageError(dbPath, fmt.Errorf("failed to apply migrations: %w", err))
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// Path returns the database file path backing this store.
func (s *SQLiteStore) Path() string {
	return s.path
}

// SizeBytes returns the current database size.
func (s *SQLiteStore) SizeBytes(ctx context.Context) (int64, error) {
	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, err
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, err
	}
	return pageCount * pageSize, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, store: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStore) querier() querier {
	return s.db
}

// isEmptyWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) isEmptyWithQuerier(ctx context.Context, q querier) (bool, error) {
	var functions, classes int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM functions").Scan(&functions); err != nil {
		return false, fmt.Errorf("failed to count functions: %w", err)
	}
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM classes").Scan(&classes); err != nil {
		return false, fmt.Errorf("failed to count classes: %w", err)
	}
	return functions == 0 && classes == 0, nil
}

func (s *SQLiteStore) IsEmpty(ctx context.Context) (bool, error) {
	return s.isEmptyWithQuerier(ctx, s.querier())
}

// clearWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) clearWithQuerier(ctx context.Context, q querier) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM functions"); err != nil {
		return fmt.Errorf("failed to clear functions: %w", err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM classes"); err != nil {
		return fmt.Errorf("failed to clear classes: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.clearWithQuerier(ctx, s.querier())
}

// insertFunctionWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) insertFunctionWithQuerier(ctx context.Context, q querier, entry *types.FunctionEntry) error {
	query := `
		INSERT INTO functions (name, file_path, body, start_line, end_line, parent_function, parent_class)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		entry.Name, entry.FilePath, entry.Body,
		entry.StartLine, entry.EndLine, entry.ParentFunction, entry.ParentClass)
	if err != nil {
		return fmt.Errorf("failed to insert function %s: %w", entry.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

func (s *SQLiteStore) InsertFunction(ctx context.Context, entry *types.FunctionEntry) error {
	return s.insertFunctionWithQuerier(ctx, s.querier(), entry)
}

// insertClassWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) insertClassWithQuerier(ctx context.Context, q querier, entry *types.ClassEntry) error {
	query := `
		INSERT INTO classes (name, file_path, body, start_line, end_line, fields, methods)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		entry.Name, entry.FilePath, entry.Body,
		entry.StartLine, entry.EndLine, joinList(entry.Fields), joinList(entry.Methods))
	if err != nil {
		return fmt.Errorf("failed to insert class %s: %w", entry.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

func (s *SQLiteStore) InsertClass(ctx context.Context, entry *types.ClassEntry) error {
	return s.insertClassWithQuerier(ctx, s.querier(), entry)
}

// queryFunctionsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) queryFunctionsWithQuerier(ctx context.Context, q querier, name string) ([]types.FunctionEntry, error) {
	query := `
		SELECT id, name, file_path, body, start_line, end_line, parent_function, parent_class
		FROM functions
		WHERE name = ?
		ORDER BY file_path, start_line
	`
	rows, err := q.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]types.FunctionEntry, 0)
	for rows.Next() {
		var e types.FunctionEntry
		err := rows.Scan(&e.ID, &e.Name, &e.FilePath, &e.Body,
			&e.StartLine, &e.EndLine, &e.ParentFunction, &e.ParentClass)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) QueryFunctionsByName(ctx context.Context, name string) ([]types.FunctionEntry, error) {
	return s.queryFunctionsWithQuerier(ctx, s.querier(), name)
}

// queryClassesWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) queryClassesWithQuerier(ctx context.Context, q querier, name string) ([]types.ClassEntry, error) {
	query := `
		SELECT id, name, file_path, body, start_line, end_line, fields, methods
		FROM classes
		WHERE name = ?
		ORDER BY file_path, start_line
	`
	rows, err := q.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]types.ClassEntry, 0)
	for rows.Next() {
		var e types.ClassEntry
		var fields, methods string
		err := rows.Scan(&e.ID, &e.Name, &e.FilePath, &e.Body,
			&e.StartLine, &e.EndLine, &fields, &methods)
		if err != nil {
			return nil, err
		}
		e.Fields = splitList(fields)
		e.Methods = splitList(methods)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) QueryClassesByName(ctx context.Context, name string) ([]types.ClassEntry, error) {
	return s.queryClassesWithQuerier(ctx, s.querier(), name)
}

// countsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) countsWithQuerier(ctx context.Context, q querier) (int, int, error) {
	var functions, classes int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM functions").Scan(&functions); err != nil {
		return 0, 0, err
	}
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM classes").Scan(&classes); err != nil {
		return 0, 0, err
	}
	return functions, classes, nil
}

func (s *SQLiteStore) Counts(ctx context.Context) (int, int, error) {
	return s.countsWithQuerier(ctx, s.querier())
}

// Transaction implementations delegate to the internal querier helpers.

func (t *sqliteTx) IsEmpty(ctx context.Context) (bool, error) {
	return t.store.isEmptyWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Clear(ctx context.Context) error {
	return t.store.clearWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) InsertFunction(ctx context.Context, entry *types.FunctionEntry) error {
	return t.store.insertFunctionWithQuerier(ctx, t.querier(), entry)
}

func (t *sqliteTx) InsertClass(ctx context.Context, entry *types.ClassEntry) error {
	return t.store.insertClassWithQuerier(ctx, t.querier(), entry)
}

func (t *sqliteTx) QueryFunctionsByName(ctx context.Context, name string) ([]types.FunctionEntry, error) {
	return t.store.queryFunctionsWithQuerier(ctx, t.querier(), name)
}

func (t *sqliteTx) QueryClassesByName(ctx context.Context, name string) ([]types.ClassEntry, error) {
	return t.store.queryClassesWithQuerier(ctx, t.querier(), name)
}

func (t *sqliteTx) Counts(ctx context.Context) (int, int, error) {
	return t.store.countsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, fmt.Errorf("nested transactions not supported")
}
