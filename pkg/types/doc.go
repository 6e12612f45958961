// Package types provides shared type definitions for the codegraph MCP server.
//
// This package defines the domain records stored in the structural index
// (FunctionEntry, ClassEntry), the repository snapshot descriptor used as the
// index cache key (CodebaseSnapshot), and the error taxonomy shared by the
// storage, engine, and tool layers.
//
// # Core Types
//
// FunctionEntry represents one discovered function or method definition:
//
//	entry := types.FunctionEntry{
//	    Name:      "ParseFile",
//	    FilePath:  "/repo/internal/parser/parser.go",
//	    StartLine: 42,
//	    EndLine:   97,
//	}
//
// A FunctionEntry with ParentClass set is a method; one without it is a free
// function. ParentFunction records the enclosing function for definitions
// nested inside another function body.
//
// ClassEntry represents one discovered class or type definition, including a
// serialized list of its fields and method names.
//
// # Error Taxonomy
//
// StorageError: the backing store could not be opened or created, fatal to
// the engine instance. LifecycleError: an operation was invoked on a closed
// engine. QueryError: malformed identifier or path input, surfaced to the
// caller, never crashes the engine. Single-file parse failures are not
// errors at this level; they are logged and the file is skipped.
package types
