package core

import (
	"time"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
)

// beginRunTracking records the start of a walk. A zero ID means tracking is off.
func beginRunTracking(store contract.AnalysisStore, cfg *contract.Config, startTime time.Time) int64 {
	if store == nil {
		return 0
	}
	configParams := map[string]any{
		"repo_path":    cfg.RepoPath,
		"backend":      string(cfg.Backend),
		"workers":      cfg.Workers,
		"output":       string(cfg.Output),
		"output_file":  cfg.OutputFile,
		"result_limit": cfg.ResultLimit,
	}
	runID, err := store.BeginRun(startTime, cfg.RepoPath, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return 0
	}
	return runID
}

// endRunTracking stores the outcome of a successful walk.
func endRunTracking(store contract.AnalysisStore, runID int64, result *schema.WalkResult) {
	if store == nil || runID <= 0 {
		return
	}
	if err := store.RecordComponentStats(runID, result.Stats); err != nil {
		contract.LogWarn("Failed to record component stats", err)
	}
	if err := store.EndRun(runID, time.Now(), result); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
