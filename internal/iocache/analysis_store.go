package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
)

// Table names for run tracking.
const (
	walkRunsTable       = "commitstat_walk_runs"
	componentStatsTable = "commitstat_component_stats"
)

// AnalysisStoreImpl records every walk run and its per-component counters.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the run tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{walkRunsTable, getCreateWalkRunsQuery(backend)},
		{componentStatsTable, getCreateComponentStatsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateWalkRunsQuery returns the CREATE TABLE query for commitstat_walk_runs.
func getCreateWalkRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(walkRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				repo_path VARCHAR(1024) NOT NULL,
				head_hash VARCHAR(64),
				total_commits INT,
				total_prs INT,
				missing_prs INT,
				file_changes INT,
				distinct_pr_numbers INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				repo_path TEXT NOT NULL,
				head_hash TEXT,
				total_commits INT,
				total_prs INT,
				missing_prs INT,
				file_changes INT,
				distinct_pr_numbers INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				repo_path TEXT NOT NULL,
				head_hash TEXT,
				total_commits INTEGER,
				total_prs INTEGER,
				missing_prs INTEGER,
				file_changes INTEGER,
				distinct_pr_numbers INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateComponentStatsQuery returns the CREATE TABLE query for commitstat_component_stats.
func getCreateComponentStatsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(componentStatsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				component VARCHAR(255) NOT NULL,
				commits INT NOT NULL,
				files_added INT NOT NULL,
				files_deleted INT NOT NULL,
				files_modified INT NOT NULL,
				PRIMARY KEY (run_id, component)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				component TEXT NOT NULL,
				commits INT NOT NULL,
				files_added INT NOT NULL,
				files_deleted INT NOT NULL,
				files_modified INT NOT NULL,
				PRIMARY KEY (run_id, component)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				component TEXT NOT NULL,
				commits INTEGER NOT NULL,
				files_added INTEGER NOT NULL,
				files_deleted INTEGER NOT NULL,
				files_modified INTEGER NOT NULL,
				PRIMARY KEY (run_id, component)
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store is a no-op.
func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

// BeginRun creates a new walk run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginRun(startTime time.Time, repoPath string, configParams map[string]any) (int64, error) {
	if as.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(walkRunsTable, as.backend)

	var runID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, repo_path, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = as.db.QueryRow(query, startTime, repoPath, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, repo_path, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = as.db.Exec(query, formatTime(startTime, as.backend), repoPath, string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert walk run: %w", err)
	}

	return runID, nil
}

// EndRun updates the walk run with completion data.
func (as *AnalysisStoreImpl) EndRun(runID int64, endTime time.Time, result *schema.WalkResult) error {
	if as.disabled() {
		return nil
	}
	if result == nil {
		return fmt.Errorf("no walk result for run %d", runID)
	}

	quotedTableName := quoteTableName(walkRunsTable, as.backend)
	ph := placeholders(as.backend, 9)

	startTime, err := as.scanTime(
		as.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, ph[0]), runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	stats := result.Stats
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, head_hash = %s,
		total_commits = %s, total_prs = %s, missing_prs = %s, file_changes = %s, distinct_pr_numbers = %s
		WHERE run_id = %s`,
		quotedTableName, ph[0], ph[1], ph[2], ph[3], ph[4], ph[5], ph[6], ph[7], ph[8])
	args := []any{
		formatTime(endTime, as.backend), durationMs, result.HeadHash,
		stats.NumCommitsToMaster, stats.NumPRs, stats.MissingPRs, stats.NumFileChanges, result.DistinctPRNumbers,
		runID,
	}

	if _, err := as.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update walk run: %w", err)
	}
	return nil
}

// RecordComponentStats stores one row per component of the run.
func (as *AnalysisStoreImpl) RecordComponentStats(runID int64, stats schema.Stats) error {
	if as.disabled() || len(stats.ComponentStats) == 0 {
		return nil
	}

	ph := placeholders(as.backend, 6)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, component, commits, files_added, files_deleted, files_modified)
		VALUES (%s)`, quoteTableName(componentStatsTable, as.backend), strings.Join(ph, ", "))

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	components := make([]string, 0, len(stats.ComponentStats))
	for component := range stats.ComponentStats {
		components = append(components, component)
	}
	slices.Sort(components)

	for _, component := range components {
		changes := stats.ChangesByComponent[component]
		if _, err := tx.Exec(query, runID, component, stats.ComponentStats[component],
			changes.FilesAdded, changes.FilesDeleted, changes.FilesModified); err != nil {
			return fmt.Errorf("failed to insert stats for component %s: %w", component, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit component stats: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// scanTime reads a single time column, decoding SQLite's text format.
func (as *AnalysisStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if as.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return parseTime(s)
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(walkRunsTable, as.backend)

	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		if err := as.db.QueryRow(fmt.Sprintf("SELECT MAX(run_id) FROM %s", quotedRuns)).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastRunTime, err := as.scanTime(as.db.QueryRow(
			fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := as.scanTime(as.db.QueryRow(
			fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		commitsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_commits), 0) FROM %s", quotedRuns)
		if err := as.db.QueryRow(commitsQuery).Scan(&status.TotalCommitsWalked); err != nil {
			return status, fmt.Errorf("failed to get total commits walked: %w", err)
		}
	}

	for _, table := range []string{walkRunsTable, componentStatsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllWalkRuns retrieves all walk runs from the store.
func (as *AnalysisStoreImpl) GetAllWalkRuns() ([]schema.WalkRunRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, repo_path, head_hash,
		total_commits, total_prs, missing_prs, file_changes, distinct_pr_numbers, config_params
		FROM %s ORDER BY run_id`, quoteTableName(walkRunsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query walk runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.WalkRunRecord
	for rows.Next() {
		var (
			record   schema.WalkRunRecord
			headHash sql.NullString
			counts   [5]sql.NullInt32
		)
		tail := []any{&record.RunDurationMs, &record.RepoPath, &headHash,
			&counts[0], &counts[1], &counts[2], &counts[3], &counts[4], &record.ConfigParams}

		switch as.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr sql.NullString
			if err := rows.Scan(append([]any{&record.RunID, &startStr, &endStr}, tail...)...); err != nil {
				return nil, fmt.Errorf("failed to scan walk run: %w", err)
			}
			if record.StartTime, err = parseTime(startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr.Valid {
				endTime, err := parseTime(endStr.String)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(append([]any{&record.RunID, &record.StartTime, &record.EndTime}, tail...)...); err != nil {
				return nil, fmt.Errorf("failed to scan walk run: %w", err)
			}
		}

		record.HeadHash = headHash.String
		record.TotalCommits = counts[0].Int32
		record.TotalPRs = counts[1].Int32
		record.MissingPRs = counts[2].Int32
		record.FileChanges = counts[3].Int32
		record.DistinctPRNumbers = counts[4].Int32
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating walk runs: %w", err)
	}
	return results, nil
}

// GetAllComponentStats retrieves all component rows from the store.
func (as *AnalysisStoreImpl) GetAllComponentStats() ([]schema.ComponentStatRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, component, commits, files_added, files_deleted, files_modified
		FROM %s ORDER BY run_id, component`, quoteTableName(componentStatsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query component stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ComponentStatRecord
	for rows.Next() {
		var record schema.ComponentStatRecord
		if err := rows.Scan(&record.RunID, &record.Component, &record.Commits,
			&record.FilesAdded, &record.FilesDeleted, &record.FilesModified); err != nil {
			return nil, fmt.Errorf("failed to scan component stats: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating component stats: %w", err)
	}
	return results, nil
}
