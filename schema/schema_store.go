package schema

import "time"

// RunRecord represents a row from the repometrics_runs table.
type RunRecord struct {
	RunID             int64
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int32
	TotalRepositories int32
	ConfigParams      *string
}
