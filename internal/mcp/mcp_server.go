// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the commitstat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Commitstat Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_commit_stats ---
	s.AddTool(mcp.NewTool("get_commit_stats",
		mcp.WithDescription("Walk the full history reachable from HEAD and return per-component, per-language and calendar commit statistics."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent workers used for the walk.")),
	), h.handleGetCommitStats)

	// --- 2. Tool: classify_paths ---
	s.AddTool(mcp.NewTool("classify_paths",
		mcp.WithDescription("Bucket repository paths by component and by language, the way a walk classifies changed files."),
		mcp.WithArray("paths", mcp.Description("Slash-separated repository paths."), mcp.Required(), mcp.WithStringItems()),
	), h.handleClassifyPaths)

	return s
}

// StartMCPServer starts the commitstat MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
