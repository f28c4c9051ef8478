package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// reportsTable is the name of the table holding the latest report per repository.
const reportsTable = "repometrics_reports"

// ReportStoreImpl keeps the latest report of each repository in a SQL database.
// Reports are stored as JSON documents keyed by repository label.
type ReportStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.ReportStore = &ReportStoreImpl{} // Compile-time check

// NewReportStore initializes and returns a new ReportStore based on the backend type.
func NewReportStore(backend schema.DatabaseBackend, connStr string) (*ReportStoreImpl, error) {
	return newReportStore(reportsTable, backend, connStr)
}

func newReportStore(tableName string, backend schema.DatabaseBackend, connStr string) (*ReportStoreImpl, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		// No-op store for disabled persistence
		return &ReportStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDatabase(backend, connStr, GetReportDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report store: %w", err)
	}

	if _, err := db.Exec(getCreateReportsTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &ReportStoreImpl{db: db, tableName: tableName, backend: backend, connStr: connStr}, nil
}

// getCreateReportsTableQuery returns the CREATE TABLE query for the given backend.
func getCreateReportsTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository VARCHAR(255) PRIMARY KEY,
				report_json LONGTEXT NOT NULL,
				installed_git_hash VARCHAR(64),
				report_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository TEXT PRIMARY KEY,
				report_json TEXT NOT NULL,
				installed_git_hash TEXT,
				report_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository TEXT PRIMARY KEY,
				report_json TEXT NOT NULL,
				installed_git_hash TEXT,
				report_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getUpsertReportQuery returns the UPSERT query for the backend.
func (rs *ReportStoreImpl) getUpsertReportQuery() string {
	quotedTableName := quoteTableName(rs.tableName, rs.backend)
	switch rs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (repository, report_json, installed_git_hash, report_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE report_json = new.report_json, installed_git_hash = new.installed_git_hash, report_timestamp = new.report_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (repository, report_json, installed_git_hash, report_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (repository) DO UPDATE SET report_json = EXCLUDED.report_json, installed_git_hash = EXCLUDED.installed_git_hash, report_timestamp = EXCLUDED.report_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (repository, report_json, installed_git_hash, report_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Get returns the stored report of a repository. The boolean is false when none is stored.
func (rs *ReportStoreImpl) Get(label string) (schema.Report, bool, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return schema.Report{}, false, nil
	}

	query := fmt.Sprintf(`SELECT report_json FROM %s WHERE repository = %s`,
		quoteTableName(rs.tableName, rs.backend), placeholder(rs.backend, 1))

	var data string
	if err := rs.db.QueryRow(query, label).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.Report{}, false, nil
		}
		return schema.Report{}, false, fmt.Errorf("failed to get report for %s: %w", label, err)
	}

	report, err := decodeReport(data)
	if err != nil {
		return schema.Report{}, false, fmt.Errorf("failed to decode report for %s: %w", label, err)
	}
	return report, true, nil
}

// Set inserts or replaces the report of its repository.
func (rs *ReportStoreImpl) Set(report schema.Report, timestamp int64) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report for %s: %w", report.Repository, err)
	}
	if _, err := rs.db.Exec(rs.getUpsertReportQuery(), report.Repository, string(data), report.InstalledGitHash, timestamp); err != nil {
		return fmt.Errorf("failed to store report for %s: %w", report.Repository, err)
	}
	return nil
}

// List returns every stored report ordered by repository label.
func (rs *ReportStoreImpl) List() ([]schema.Report, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT report_json FROM %s ORDER BY repository`, quoteTableName(rs.tableName, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []schema.Report
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report, err := decodeReport(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

func decodeReport(data string) (schema.Report, error) {
	var report schema.Report
	err := json.Unmarshal([]byte(data), &report)
	return report, err
}

// Close closes the underlying DB connection.
func (rs *ReportStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the report store.
func (rs *ReportStoreImpl) GetStatus() (schema.ReportStoreStatus, error) {
	status := schema.ReportStoreStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(rs.tableName, rs.backend)

	total, err := countRows(rs.db, rs.tableName, rs.backend)
	if err != nil {
		return status, fmt.Errorf("failed to get total reports: %w", err)
	}
	status.TotalReports = int(total)
	if status.TotalReports == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(report_timestamp), MIN(report_timestamp) FROM %s", quotedTableName)
	if err := rs.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get report times: %w", err)
	}
	status.LastReportTime = time.Unix(lastTs, 0)
	status.OldestReportTime = time.Unix(oldestTs, 0)

	// Rough estimate unless the backend can tell
	status.TableSizeBytes = total * 1000
	switch rs.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := rs.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		_ = rs.db.QueryRow(sizeQuery, cfg.DBName, rs.tableName).Scan(&status.TableSizeBytes)
	case schema.PostgreSQLBackend:
		_ = rs.db.QueryRow("SELECT pg_total_relation_size($1)", rs.tableName).Scan(&status.TableSizeBytes)
	}

	return status, nil
}
