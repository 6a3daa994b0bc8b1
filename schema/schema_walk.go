package schema

import "time"

// WalkResult is the outcome of a full history walk plus its bookkeeping.
type WalkResult struct {
	RepoPath          string        `json:"repo_path"`
	HeadHash          string        `json:"head_hash"`
	Backend           GitBackend    `json:"backend"`
	Commits           int           `json:"commits"`
	DistinctPRNumbers int           `json:"distinct_pr_numbers"`
	Stats             Stats         `json:"stats"`
	RevWalkDuration   time.Duration `json:"revwalk_duration"`
	ReduceDuration    time.Duration `json:"reduce_duration"`
	TotalDuration     time.Duration `json:"total_duration"`
	FromCache         bool          `json:"-"`
}
