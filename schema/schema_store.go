package schema

import "time"

// WalkRunRecord represents a row from the commitstat_walk_runs table.
type WalkRunRecord struct {
	RunID             int64
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int32
	RepoPath          string
	HeadHash          string
	TotalCommits      int32
	TotalPRs          int32
	MissingPRs        int32
	FileChanges       int32
	DistinctPRNumbers int32
	ConfigParams      *string
}

// ComponentStatRecord represents a row from the commitstat_component_stats table.
type ComponentStatRecord struct {
	RunID         int64
	Component     string
	Commits       int32
	FilesAdded    int32
	FilesDeleted  int32
	FilesModified int32
}
