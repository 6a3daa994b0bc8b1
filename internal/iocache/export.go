package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/internal/parquet"
)

// Suffixes appended to the export prefix for each Parquet file.
const (
	walkRunsSuffix       = ".walk_runs.parquet"
	componentStatsSuffix = ".component_stats.parquet"
)

// ExecuteAnalysisExport writes the run history held by store to Parquet files
// named after outputFile.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no walk runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total walk runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total component records: %d\n", status.TableSizes[componentStatsTable])

	runs, err := store.GetAllWalkRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve walk runs: %w", err)
	}
	components, err := store.GetAllComponentStats()
	if err != nil {
		return fmt.Errorf("failed to retrieve component stats: %w", err)
	}

	runsFile := outputFile + walkRunsSuffix
	parquetRuns := parquet.ConvertWalkRunRecords(runs)
	if err := parquet.WriteWalkRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write walk runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d walk runs to: %s\n", len(parquetRuns), runsFile)

	componentsFile := outputFile + componentStatsSuffix
	parquetComponents := parquet.ConvertComponentStatRecords(components)
	if err := parquet.WriteComponentStatsParquet(parquetComponents, componentsFile); err != nil {
		return fmt.Errorf("failed to write component stats: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d component records to: %s\n", len(parquetComponents), componentsFile)

	return nil
}
