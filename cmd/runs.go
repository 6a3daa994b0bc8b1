package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/internal/iocache"
	"github.com/huangsam/commitstat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackend reads and validates the run history backend from Viper.
// An empty backend means run history is disabled.
func runsBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("analysis-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run history operations.
func runsSetup() error {
	backend, connStr, err := runsBackend()
	if err != nil {
		return err
	}

	// No stats cache for run history commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads configuration for migrations without opening the store,
// so migrations can run against a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runsBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iocache.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

// runsCmd focused on run history management.
//
// Runs subcommands skip sharedSetup, so no repository is needed.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of walk runs",
	Long: `Manage the history of walk runs recorded with --analysis-backend.

Each tracked walk stores:
- Run metadata (timestamps, duration, repository, HEAD, configuration)
- Headline counters (commits, PRs, missing PRs, file changes, distinct PR numbers)
- Per-component commit and file change counters

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Track a walk, then check the history
  commitstat walk . --analysis-backend sqlite
  commitstat runs status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  commitstat runs export --analysis-backend sqlite --output-file history`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded walk runs",
	Long: `Delete all stored walk runs and component counters.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the run history tables`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before removing its file
		iocache.CloseStores()
		dbFilePath := cfg.AnalysisDBConnect
		if dbFilePath == "" {
			dbFilePath = iocache.GetAnalysisDBFilePath()
		}
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, dbFilePath, cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about recorded walk runs.

Displays:
- Backend type and connection status
- Total number of runs and the latest run ID
- Last and oldest run timestamps
- Total commits walked across all runs
- Database table sizes`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetAnalysisStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run history status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all recorded walk runs to Parquet.

Writes two files next to --output-file:
- <output-file>.walk_runs.parquet        one row per walk run
- <output-file>.component_stats.parquet  one row per run and component

Examples:
  commitstat runs export --analysis-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.walk_runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(os.Stdout, iocache.Manager.GetAnalysisStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run history store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  commitstat runs migrate --analysis-backend sqlite

  # Migrate to specific version
  commitstat runs migrate --analysis-backend sqlite --target-version 2

  # Roll back every migration
  commitstat runs migrate --analysis-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
