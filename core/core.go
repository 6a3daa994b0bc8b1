// Package core has the history walk and its orchestration.
package core

import (
	"context"
	"time"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/internal/outwriter"
	"github.com/huangsam/commitstat/schema"
)

// ExecuteWalk walks the repository, writes the JSON report and prints the
// console summary. It serves as the main entry point for the 'walk' command.
func ExecuteWalk(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := runWalkCore(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.WriteReport(result.Stats, cfg.OutputFile); err != nil {
		return err
	}
	return outwriter.PrintWalkResult(result, cfg, time.Since(start))
}

// GetCommitStats walks the repository without any console output.
// It serves the MCP tools.
func GetCommitStats(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.WalkResult, error) {
	return runWalkCore(withSuppressHeader(ctx), cfg, client, mgr)
}

// runWalkCore performs the tracked, cached walk.
func runWalkCore(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.WalkResult, error) {
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		outwriter.LogWalkHeader(cfg)
	}

	analysisStore := mgr.GetAnalysisStore()
	runID := beginRunTracking(analysisStore, cfg, time.Now())

	result, err := cachedWalkHistory(ctx, cfg, client, mgr.GetStatsStore())
	if err != nil {
		return nil, err
	}

	endRunTracking(analysisStore, runID, result)
	return result, nil
}
