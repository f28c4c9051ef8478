package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Table names for run tracking.
const (
	runsTable          = "repometrics_runs"
	metricResultsTable = "repometrics_metric_results"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetRunDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run store: %w", err)
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{metricResultsTable, getCreateMetricResultsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for repometrics_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_repositories INT,
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
				total_repositories INT,
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
				total_repositories INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateMetricResultsQuery returns the CREATE TABLE query for repometrics_metric_results.
func getCreateMetricResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(metricResultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				repository VARCHAR(255) NOT NULL,
				metric_name VARCHAR(255) NOT NULL,
				metric_group VARCHAR(100) NOT NULL,
				result_json TEXT NOT NULL,
				hash_last_commit VARCHAR(64) NOT NULL,
				cached BOOLEAN NOT NULL,
				recorded_at DATETIME(6) NOT NULL,
				PRIMARY KEY (run_id, repository, metric_name)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				repository TEXT NOT NULL,
				metric_name TEXT NOT NULL,
				metric_group TEXT NOT NULL,
				result_json TEXT NOT NULL,
				hash_last_commit TEXT NOT NULL,
				cached BOOLEAN NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (run_id, repository, metric_name)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				repository TEXT NOT NULL,
				metric_name TEXT NOT NULL,
				metric_group TEXT NOT NULL,
				result_json TEXT NOT NULL,
				hash_last_commit TEXT NOT NULL,
				cached INTEGER NOT NULL,
				recorded_at TEXT NOT NULL,
				PRIMARY KEY (run_id, repository, metric_name)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalRepositories int) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(rs.backend, 1))

	start := timeScanner{backend: rs.backend}
	if err := rs.db.QueryRow(query, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}
	if startTime == nil {
		return fmt.Errorf("run %d has no start_time", runID)
	}

	durationMs := endTime.Sub(*startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_repositories = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3), placeholder(rs.backend, 4))
	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalRepositories, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

// RecordMetricResult stores one metric outcome of a repository for a run.
func (rs *RunStoreImpl) RecordMetricResult(runID int64, repository string, result schema.MetricResult, cached bool) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	resultJSON, err := json.Marshal(result.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result of %s: %w", result.Info.Name, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, repository, metric_name, metric_group, result_json, hash_last_commit, cached, recorded_at)
		VALUES (%s)
	`, quoteTableName(metricResultsTable, rs.backend), placeholders(rs.backend, 8))

	args := []any{
		runID, repository, result.Info.Name, string(result.Info.Group), string(resultJSON),
		result.HashLastCommit, cached, formatTime(time.Now(), rs.backend),
	}
	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert metric result: %w", err)
	}

	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)

	totalRuns, err := countRows(rs.db, runsTable, rs.backend)
	if err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	status.TotalRuns = int(totalRuns)

	if status.TotalRuns > 0 {
		last := timeScanner{backend: rs.backend}
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastTime, err := last.value()
		if err != nil {
			return status, err
		}
		if lastTime != nil {
			status.LastRunTime = *lastTime
		}

		oldest := timeScanner{backend: rs.backend}
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(oldestRunQuery).Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestTime, err := oldest.value()
		if err != nil {
			return status, err
		}
		if oldestTime != nil {
			status.OldestRunTime = *oldestTime
		}

		reposQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_repositories), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(reposQuery).Scan(&status.TotalRepositories); err != nil {
			return status, fmt.Errorf("failed to get total repositories: %w", err)
		}
	}

	for _, table := range []string{runsTable, metricResultsTable} {
		count, err := countRows(rs.db, table, rs.backend)
		if err != nil {
			return status, err
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, COALESCE(total_repositories, 0), config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		start := timeScanner{backend: rs.backend}
		end := timeScanner{backend: rs.backend}
		if err := rows.Scan(&record.RunID, start.dest(), end.dest(), &record.RunDurationMs, &record.TotalRepositories, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetAllMetricRecords retrieves all tracked metric outcomes from the store.
func (rs *RunStoreImpl) GetAllMetricRecords() ([]schema.MetricRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repository, metric_name, metric_group, result_json, hash_last_commit, cached, recorded_at
		FROM %s ORDER BY run_id, repository, metric_name`, quoteTableName(metricResultsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.MetricRecord
	for rows.Next() {
		var record schema.MetricRecord
		recorded := timeScanner{backend: rs.backend}
		if err := rows.Scan(&record.RunID, &record.Repository, &record.MetricName, &record.MetricGroup,
			&record.ResultJSON, &record.HashLastCommit, &record.Cached, recorded.dest()); err != nil {
			return nil, fmt.Errorf("failed to scan metric result: %w", err)
		}

		recordedAt, err := recorded.value()
		if err != nil {
			return nil, err
		}
		if recordedAt != nil {
			record.RecordedAt = *recordedAt
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric results: %w", err)
	}

	return results, nil
}
