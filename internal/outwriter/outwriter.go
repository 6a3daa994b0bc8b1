// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"path/filepath"

	"github.com/huangsam/commitstat/internal/contract"
)

// LogWalkHeader prints a concise, 2-line header before a walk.
func LogWalkHeader(cfg *contract.Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	// Line 1: the repository and how it is read
	fmt.Printf("🔎 Repo: %s (Backend: %s, Workers: %d)\n", repoName, cfg.Backend, cfg.Workers)

	// Line 2: where the report lands
	fmt.Printf("📝 Report: %s\n", reportPath(cfg.OutputFile))
}
