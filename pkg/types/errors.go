package types

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across components
var (
	// ErrEngineClosed is returned when an operation is invoked after Close
	ErrEngineClosed = errors.New("engine is closed")
	// ErrIndexInProgress is returned when a rebuild is already running
	ErrIndexInProgress = errors.New("indexing already in progress")
)

// StorageError indicates the backing store could not be opened, created, or
// written. It is fatal to the engine instance and never retried.
type StorageError struct {
	Path string // Store file path
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for the given store path.
func NewStorageError(path string, err error) *StorageError {
	return &StorageError{Path: path, Err: err}
}

// LifecycleError indicates an operation was invoked in an invalid engine
// state, typically after Close.
type LifecycleError struct {
	Op  string
	Err error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("lifecycle error in %s: %v", e.Op, e.Err)
}

func (e *LifecycleError) Unwrap() error { return e.Err }

// QueryError indicates malformed query input (empty identifier, bad path).
// It is surfaced to the caller with enough context to correct and re-issue
// the request.
type QueryError struct {
	Param  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Reason)
}
