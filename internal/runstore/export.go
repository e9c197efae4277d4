package runstore

import (
	"errors"
	"fmt"

	"github.com/faultline-io/faultline/internal/parquet"
)

// ExecuteRunExport performs the actual export of run data to Parquet files.
func ExecuteRunExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.GetRunStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total detection runs: %d\n", status.TotalRuns)
	fmt.Printf("Total pattern records: %d\n", status.TableSizes[patternScoresTable])

	// Retrieve all detection runs
	runs, err := store.GetRuns(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve detection runs: %w", err)
	}

	// Retrieve all pattern scores
	scores, err := store.GetPatternScores(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve pattern scores: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertDetectionRunRecords(runs)
	parquetScores := parquet.ConvertPatternScoreRecords(scores)

	// Write detection runs to Parquet
	runsFile := outputFile + ".detection_runs.parquet"
	if err := parquet.WriteDetectionRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write detection runs: %w", err)
	}
	fmt.Printf("Exported %d detection runs to: %s\n", len(parquetRuns), runsFile)

	// Write pattern scores to Parquet
	scoresFile := outputFile + ".pattern_scores.parquet"
	if err := parquet.WritePatternScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write pattern scores: %w", err)
	}
	fmt.Printf("Exported %d pattern records to: %s\n", len(parquetScores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
