// Package parquet exports commitstat run history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/commitstat/schema"
	"github.com/parquet-go/parquet-go"
)

// WalkRun is one row of the commitstat_walk_runs table.
type WalkRun struct {
	RunID             int64      `parquet:"run_id,snappy"`
	StartTime         time.Time  `parquet:"start_time,snappy"`
	EndTime           *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs     *int32     `parquet:"run_duration_ms,optional,snappy"`
	RepoPath          string     `parquet:"repo_path,snappy"`
	HeadHash          string     `parquet:"head_hash,snappy"`
	TotalCommits      int32      `parquet:"total_commits,snappy"`
	TotalPRs          int32      `parquet:"total_prs,snappy"`
	MissingPRs        int32      `parquet:"missing_prs,snappy"`
	FileChanges       int32      `parquet:"file_changes,snappy"`
	DistinctPRNumbers int32      `parquet:"distinct_pr_numbers,snappy"`
	ConfigParams      *string    `parquet:"config_params,optional,snappy"`
}

// ComponentStat is one row of the commitstat_component_stats table.
type ComponentStat struct {
	RunID         int64  `parquet:"run_id,snappy"`
	Component     string `parquet:"component,snappy,dict"`
	Commits       int32  `parquet:"commits,snappy"`
	FilesAdded    int32  `parquet:"files_added,snappy"`
	FilesDeleted  int32  `parquet:"files_deleted,snappy"`
	FilesModified int32  `parquet:"files_modified,snappy"`
}

// WriteWalkRunsParquet writes walk runs to a Parquet file.
func WriteWalkRunsParquet(data []WalkRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteComponentStatsParquet writes component rows to a Parquet file.
func WriteComponentStatsParquet(data []ComponentStat, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows whose schema is inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer; without it the file is unreadable
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertWalkRunRecords converts store rows to WalkRun for Parquet export.
func ConvertWalkRunRecords(records []schema.WalkRunRecord) []WalkRun {
	result := make([]WalkRun, len(records))
	for i, record := range records {
		result[i] = WalkRun{
			RunID:             record.RunID,
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			RunDurationMs:     record.RunDurationMs,
			RepoPath:          record.RepoPath,
			HeadHash:          record.HeadHash,
			TotalCommits:      record.TotalCommits,
			TotalPRs:          record.TotalPRs,
			MissingPRs:        record.MissingPRs,
			FileChanges:       record.FileChanges,
			DistinctPRNumbers: record.DistinctPRNumbers,
			ConfigParams:      record.ConfigParams,
		}
	}
	return result
}

// ConvertComponentStatRecords converts store rows to ComponentStat for Parquet export.
func ConvertComponentStatRecords(records []schema.ComponentStatRecord) []ComponentStat {
	result := make([]ComponentStat, len(records))
	for i, record := range records {
		result[i] = ComponentStat(record)
	}
	return result
}
