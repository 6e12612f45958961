// Package mcp implements the Model Context Protocol (MCP) server for
// codegraph.
//
// The server exposes five tools to AI coding assistants:
//   - search_function: Find free-function definitions by exact name
//   - search_class: Find class definitions by exact name
//   - search_class_method: Find method definitions by exact name
//   - update_index: Force a full rebuild of a repository's index
//   - get_status: Report fingerprint and entry counts for a repository
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport; the server listens
// on stdin and writes responses to stdout, so all logging goes to stderr.
//
// Each tool call carries the repository path. The server keeps one engine
// per repository and transparently reopens it when the repository's
// fingerprint changes, so a lookup always runs against an index matching
// the repository's current content-state.
package mcp
