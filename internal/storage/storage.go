package storage

import (
	"context"
	"errors"
	"strings"

	"codegraph/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// Store defines the persistence interface for one fingerprinted index.
type Store interface {
	// IsEmpty reports whether both entry tables have zero rows.
	IsEmpty(ctx context.Context) (bool, error)

	// Clear deletes every row from both entry tables.
	Clear(ctx context.Context) error

	// Entry operations
	InsertFunction(ctx context.Context, entry *types.FunctionEntry) error
	InsertClass(ctx context.Context, entry *types.ClassEntry) error
	QueryFunctionsByName(ctx context.Context, name string) ([]types.FunctionEntry, error)
	QueryClassesByName(ctx context.Context, name string) ([]types.ClassEntry, error)

	// Counts returns the number of function and class rows.
	Counts(ctx context.Context) (functions, classes int, err error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Store // Embed Store interface for transaction operations
}

// joinList serializes a name list for a TEXT column.
func joinList(names []string) string {
	return strings.Join(names, ",")
}

// splitList is the inverse of joinList.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
