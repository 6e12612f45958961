package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchToolSchema is the shared input shape of the three search tools.
func searchToolSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the repository root",
			},
			"identifier": map[string]interface{}{
				"type":        "string",
				"description": "Exact name to look up (no fuzzy or substring matching)",
			},
			"print_body": map[string]interface{}{
				"type":        "boolean",
				"description": "If true, include the definition body in the result",
				"default":     true,
			},
		},
		Required: []string{"path", "identifier"},
	}
}

// searchFunctionTool returns the tool definition for search_function
func searchFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_function",
		Description: "Find free-function definitions by exact name, returning file path, line range, and body",
		InputSchema: searchToolSchema(),
	}
}

// searchClassTool returns the tool definition for search_class
func searchClassTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_class",
		Description: "Find class definitions by exact name, returning file path, line range, fields, methods, and body",
		InputSchema: searchToolSchema(),
	}
}

// searchClassMethodTool returns the tool definition for search_class_method
func searchClassMethodTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_class_method",
		Description: "Find class-method definitions by exact name, returning file path, line range, enclosing class, and body",
		InputSchema: searchToolSchema(),
	}
}

// updateIndexTool returns the tool definition for update_index
func updateIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_index",
		Description: "Force a full rebuild of a repository's structural index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the repository root",
				},
			},
			Required: []string{"path"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report the index fingerprint, store location, and entry counts for a repository",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the repository root",
				},
			},
			Required: []string{"path"},
		},
	}
}
