// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/commitstat/schema"
)

// GitClient defines the source-control operations needed to walk a history.
// This allows the pipeline to be tested without needing a real repository.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository / Reference Resolution ---

	// OpenRepository resolves the repository at path and returns its root.
	OpenRepository(ctx context.Context, path string) (string, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// --- History ---

	// RevWalk returns every commit id reachable from HEAD in topological order.
	RevWalk(ctx context.Context, repoPath string) ([]string, error)

	// GetCommit returns the commit with the given id.
	GetCommit(ctx context.Context, repoPath string, id string) (schema.CommitRecord, error)

	// DiffTreeToTree returns the deltas between two trees.
	// An empty oldTree means the empty tree.
	DiffTreeToTree(ctx context.Context, repoPath string, oldTree, newTree string) ([]schema.FileDelta, error)
}

// CacheManager defines the interface for managing stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetStatsStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking walk runs and their results.
type AnalysisStore interface {
	// BeginRun creates a new walk run and returns its unique ID
	BeginRun(startTime time.Time, repoPath string, configParams map[string]any) (int64, error)

	// EndRun updates the walk run with completion data
	EndRun(runID int64, endTime time.Time, result *schema.WalkResult) error

	// RecordComponentStats stores the per-component counters of a run
	RecordComponentStats(runID int64, stats schema.Stats) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllWalkRuns retrieves all walk runs, ordered by run ID
	GetAllWalkRuns() ([]schema.WalkRunRecord, error)

	// GetAllComponentStats retrieves all component rows, ordered by run ID and component
	GetAllComponentStats() ([]schema.ComponentStatRecord, error)

	// Close closes the underlying connection
	Close() error
}
