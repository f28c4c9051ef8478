// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/repometrics/schema"
)

// Metric is the capability set every metric plugin exposes.
// Info and Schema must be pure. Verify and Execute may do I/O.
type Metric interface {
	// Info returns the static identity of the metric.
	Info() schema.MetricInfo

	// Verify reports whether the metric applies to the bound repository.
	Verify(ctx context.Context) (bool, error)

	// Execute computes the metric result. It is only called after Verify returned true.
	Execute(ctx context.Context) (any, error)

	// Schema describes the shape of the Execute result.
	Schema() schema.ResultSchema
}

// MetricType is a constructible metric variant.
// New must be pure and synchronous.
type MetricType struct {
	Name string
	New  func(ec *EvaluationContext) Metric
}

// RevisionOracle returns the current commit identifier of a working directory.
type RevisionOracle interface {
	GetRepoHash(ctx context.Context, repoPath string) (string, error)
}

// RevisionFunc adapts a plain function to RevisionOracle.
type RevisionFunc func(ctx context.Context, repoPath string) (string, error)

// GetRepoHash implements RevisionOracle.
func (f RevisionFunc) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	return f(ctx, repoPath)
}

// PriorReportLookup returns the most recent stored result for a repository label and metric name.
type PriorReportLookup interface {
	PriorResult(label, metric string) (schema.MetricResult, bool)
}

// GitClient defines the git operations needed to acquire and inspect repositories.
// This allows the run driver to be tested without needing a real git executable.
type GitClient interface {
	RevisionOracle

	// Run executes a git command and returns the output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// Clone clones url at branch into dir.
	Clone(ctx context.Context, url, branch, dir string) error

	// Update discards local changes, checks out branch and rebases onto upstream.
	Update(ctx context.Context, dir, branch string) error

	// ListCommits returns the most recent commits reachable from HEAD, newest first.
	// A limit of 0 or less returns the whole history.
	ListCommits(ctx context.Context, repoPath string, limit int) ([]schema.Commit, error)

	// AddWorktree checks out hash into a new detached worktree at dir.
	AddWorktree(ctx context.Context, repoPath, dir, hash string) error

	// RemoveWorktree deletes a worktree created by AddWorktree.
	RemoveWorktree(ctx context.Context, repoPath, dir string) error
}

// Installer installs the dependencies of a working copy.
type Installer interface {
	Install(ctx context.Context, dir string) error
}

// ManifestReader produces the parsed manifest of a working copy.
type ManifestReader interface {
	Read(dir string) (schema.Manifest, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetReportStore() ReportStore
	GetRunStore() RunStore
}

// ReportStore keeps the latest report per repository label.
type ReportStore interface {
	Get(label string) (schema.Report, bool, error)
	Set(report schema.Report, timestamp int64) error
	List() ([]schema.Report, error)
	GetStatus() (schema.ReportStoreStatus, error)
	Close() error
}

// RunStore defines the interface for tracking runs and the metric results they produced.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRepositories int) error

	// RecordMetricResult stores one metric outcome for a repository
	RecordMetricResult(runID int64, repository string, result schema.MetricResult, cached bool) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStoreStatus, error)

	// GetAllRuns returns every tracked run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllMetricRecords returns every tracked metric outcome
	GetAllMetricRecords() ([]schema.MetricRecord, error)

	// Close closes the underlying connection
	Close() error
}
