// Package parquet provides data structures and functions for exporting repometrics
// run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repometrics/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single repometrics run with metadata.
// This struct maps to the repometrics_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRepositories is the number of repositories configured for this run
	TotalRepositories int32 `parquet:"total_repositories,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// MetricResult represents one metric outcome for one repository in a run.
// This struct maps to the repometrics_metric_results database table.
type MetricResult struct {
	RunID          int64     `parquet:"run_id,snappy"`
	Repository     string    `parquet:"repository,snappy,dict"`
	MetricName     string    `parquet:"metric_name,snappy,dict"`
	MetricGroup    string    `parquet:"metric_group,snappy,dict"`
	ResultJSON     string    `parquet:"result_json,snappy"`
	HashLastCommit string    `parquet:"hash_last_commit,snappy"`
	Cached         bool      `parquet:"cached"`
	RecordedAt     time.Time `parquet:"recorded_at,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMetricResultsParquet writes a slice of MetricResult structs to a Parquet file.
func WriteMetricResultsParquet(data []MetricResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows whose schema is derived from the struct tags of T.
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
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:             record.RunID,
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			RunDurationMs:     record.RunDurationMs,
			TotalRepositories: record.TotalRepositories,
			ConfigParams:      record.ConfigParams,
		}
	}
	return result
}

// ConvertMetricRecords converts schema.MetricRecord to MetricResult for Parquet export.
func ConvertMetricRecords(records []schema.MetricRecord) []MetricResult {
	result := make([]MetricResult, len(records))
	for i, record := range records {
		result[i] = MetricResult{
			RunID:          record.RunID,
			Repository:     record.Repository,
			MetricName:     record.MetricName,
			MetricGroup:    record.MetricGroup,
			ResultJSON:     record.ResultJSON,
			HashLastCommit: record.HashLastCommit,
			Cached:         record.Cached,
			RecordedAt:     record.RecordedAt,
		}
	}
	return result
}
