package contract

import (
	"errors"
	"fmt"
)

// Error taxonomy for repository evaluation.
var (
	// ErrContractViolation means a metric type cannot satisfy the metric contract.
	ErrContractViolation = errors.New("metric contract violation")

	// ErrRevisionUnavailable means the current commit of a working directory could not be resolved.
	ErrRevisionUnavailable = errors.New("revision unavailable")

	// ErrManifestMissing means the working directory has no manifest.
	ErrManifestMissing = errors.New("manifest missing")

	// ErrManifestInvalid means the manifest exists but cannot be parsed.
	ErrManifestInvalid = errors.New("manifest invalid")

	// ErrMetricEvaluation means a metric failed during verify or execute.
	ErrMetricEvaluation = errors.New("metric evaluation failure")

	// ErrReportNotFound means the prior report set has no entry for a lookup.
	ErrReportNotFound = errors.New("report not found")

	// ErrUnknownRepository means a label does not name a configured repository.
	ErrUnknownRepository = errors.New("unknown repository")
)

// Phases of a metric evaluation.
const (
	PhaseVerify  = "verify"
	PhaseExecute = "execute"
)

// EvaluationError is returned when a repository could not be evaluated.
type EvaluationError struct {
	Repository string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %s: %v", e.Repository, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// MetricError is a failure of one metric during one phase.
// It matches both ErrMetricEvaluation and the underlying cause.
type MetricError struct {
	Metric string
	Phase  string
	Err    error
}

func (e *MetricError) Error() string {
	return fmt.Sprintf("metric %s %s: %v", e.Metric, e.Phase, e.Err)
}

func (e *MetricError) Unwrap() []error {
	return []error{ErrMetricEvaluation, e.Err}
}
