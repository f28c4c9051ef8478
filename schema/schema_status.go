package schema

import "time"

// ReportStoreStatus represents the status of the report store.
type ReportStoreStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalReports     int       `json:"total_reports"`
	LastReportTime   time.Time `json:"last_report_time"`
	OldestReportTime time.Time `json:"oldest_report_time"`
	TableSizeBytes   int64     `json:"table_size_bytes"`
}

// RunStoreStatus represents the status of the run history store.
type RunStoreStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalRepositories int              `json:"total_repositories"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// MetricRecord is one metric evaluation as tracked by the run store.
type MetricRecord struct {
	RunID          int64
	Repository     string
	MetricName     string
	MetricGroup    string
	ResultJSON     string
	HashLastCommit string
	Cached         bool
	RecordedAt     time.Time
}
