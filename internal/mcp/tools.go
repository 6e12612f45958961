package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"codegraph/internal/query"
	"codegraph/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeIndexingInProgress = -32002 // Another rebuild is already running
)

// handleSearchFunction handles the search_function tool invocation
func (s *Server) handleSearchFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSearch(ctx, request, query.KindFunction, false)
}

// handleSearchClassMethod handles the search_class_method tool invocation
func (s *Server) handleSearchClassMethod(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSearch(ctx, request, query.KindClassMethod, false)
}

// handleSearchClass handles the search_class tool invocation
func (s *Server) handleSearchClass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSearch(ctx, request, "", true)
}

// handleSearch is the shared implementation behind the three search tools.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest, kind query.Kind, classTable bool) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	identifier, ok := args["identifier"].(string)
	if !ok || identifier == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "identifier parameter is required", map[string]interface{}{
			"param":  "identifier",
			"reason": "missing or empty",
		})
	}
	printBody := getBoolDefault(args, "print_body", true)

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"path":   path,
			"reason": err.Error(),
		})
	}

	eng, err := s.engineFor(ctx, path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to open index", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	var out string
	switch {
	case classTable:
		out, err = eng.SearchClass(ctx, identifier, printBody)
	case kind == query.KindClassMethod:
		out, err = eng.SearchClassMethod(ctx, identifier, printBody)
	default:
		out, err = eng.SearchFunction(ctx, identifier, printBody)
	}
	if err != nil {
		var qerr *types.QueryError
		if errors.As(err, &qerr) {
			return nil, newMCPError(ErrorCodeInvalidParams, qerr.Error(), map[string]interface{}{
				"param":      qerr.Param,
				"identifier": identifier,
				"path":       path,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"identifier": identifier,
			"path":       path,
			"error":      err.Error(),
		})
	}

	return mcp.NewToolResultText(out), nil
}

// handleUpdateIndex handles the update_index tool invocation
func (s *Server) handleUpdateIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"path":   path,
			"reason": err.Error(),
		})
	}

	eng, err := s.engineFor(ctx, path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to open index", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	stats, err := eng.Update(ctx)
	if err != nil {
		if errors.Is(err, types.ErrIndexInProgress) {
			return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", map[string]interface{}{
				"path": path,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "rebuild failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"updated":        true,
		"files_parsed":   stats.FilesParsed,
		"files_skipped":  stats.FilesSkipped,
		"function_count": stats.FunctionCount,
		"class_count":    stats.ClassCount,
		"duration_ms":    stats.Duration.Milliseconds(),
	}
	if len(stats.ErrorMessages) > 0 {
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"path":   path,
			"reason": err.Error(),
		})
	}

	eng, err := s.engineFor(ctx, path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to open index", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	status, err := eng.Status(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"fingerprint": status.Fingerprint,
		"repository": map[string]interface{}{
			"path":   status.RepoPath,
			"is_git": status.IsGit,
		},
		"statistics": map[string]interface{}{
			"function_count": status.FunctionCount,
			"class_count":    status.ClassCount,
			"store_path":     status.StorePath,
			"index_size_mb":  fmt.Sprintf("%.2f", float64(status.SizeBytes)/(1024*1024)),
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and is a readable directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
