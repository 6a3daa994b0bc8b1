package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/commitstat/core"
	"github.com/huangsam/commitstat/core/classify"
	"github.com/huangsam/commitstat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.CacheManager
}

// pathClassification is the payload of the classify_paths tool.
type pathClassification struct {
	Components     map[string]int `json:"components"`
	Languages      map[string]int `json:"languages"`
	Interesting    map[string]int `json:"interesting_languages"`
	ComponentPaths int            `json:"component_paths"`
	Unclassified   []string       `json:"unclassified"`
}

func (h *toolHandler) handleGetCommitStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if w := request.GetInt("workers", 0); w != 0 {
		if w < 0 {
			return mcp.NewToolResultError("workers must be at least 1"), nil
		}
		cfg.Workers = w
	}

	result, err := core.GetCommitStats(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("walk failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyPaths(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths := request.GetStringSlice("paths", nil)
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths must contain at least one path"), nil
	}

	out := pathClassification{
		Components: classify.CountBy(paths, classify.Component),
		Languages:  classify.CountBy(paths, classify.Language),
		Interesting: classify.CountBy(paths, func(p string) (string, bool) {
			lang, ok := classify.Language(p)
			return lang, ok && classify.IsInterestingLanguage(lang)
		}),
		Unclassified: []string{},
	}
	for _, p := range paths {
		if classify.IsComponentPath(p) {
			out.ComponentPaths++
		} else {
			out.Unclassified = append(out.Unclassified, p)
		}
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
