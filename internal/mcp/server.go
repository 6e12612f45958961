package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"codegraph/internal/engine"
	"codegraph/internal/snapshot"
)

const (
	// ServerName is the MCP server name
	ServerName = "codegraph"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp  *server.MCPServer
	opts engine.Options

	mu      sync.Mutex
	engines map[string]*engine.Engine // Keyed by resolved repository root
}

// NewServer creates a new MCP server instance. cacheDir overrides the
// per-user index cache location; empty selects the default.
func NewServer(cacheDir string) (*Server, error) {
	if cacheDir == "" {
		var err error
		cacheDir, err = engine.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		opts:    engine.Options{CacheDir: cacheDir},
		engines: make(map[string]*engine.Engine),
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer s.closeEngines()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchFunctionTool(), s.handleSearchFunction)
	s.mcp.AddTool(searchClassTool(), s.handleSearchClass)
	s.mcp.AddTool(searchClassMethodTool(), s.handleSearchClassMethod)
	s.mcp.AddTool(updateIndexTool(), s.handleUpdateIndex)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}

// engineFor returns an open engine for the repository at path, opening one
// on first use. A cached engine whose fingerprint no longer matches the
// repository's current content-state is closed and replaced, so queries
// always run against a fresh index.
func (s *Server) engineFor(ctx context.Context, path string) (*engine.Engine, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	snap, err := snapshot.Compute(abs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if eng, ok := s.engines[abs]; ok {
		if eng.Snapshot().Hash == snap.Hash {
			return eng, nil
		}
		_ = eng.Close()
		delete(s.engines, abs)
	}

	eng, err := engine.Open(ctx, abs, s.opts)
	if err != nil {
		return nil, err
	}
	s.engines[abs] = eng
	return eng, nil
}

// closeEngines releases every open engine.
func (s *Server) closeEngines() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, eng := range s.engines {
		_ = eng.Close()
		delete(s.engines, path)
	}
}
