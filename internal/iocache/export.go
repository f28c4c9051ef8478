package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/internal/parquet"
)

// ExportRuns writes the tracked runs and metric results of store to Parquet files
// named after outputFile, reporting progress to w.
func ExportRuns(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is not enabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total metric records: %d\n", status.TableSizes[metricResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	records, err := store.GetAllMetricRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve metric results: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	metricsFile := outputFile + ".metric_results.parquet"
	parquetMetrics := parquet.ConvertMetricRecords(records)
	if err := parquet.WriteMetricResultsParquet(parquetMetrics, metricsFile); err != nil {
		return fmt.Errorf("failed to write metric results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d metric results to: %s\n", len(parquetMetrics), metricsFile)

	return nil
}
