// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRun prints the reports of a run using the configured output format.
func (ow *OutWriter) WriteRun(out *schema.RunOutput, cfg *contract.Config) error {
	return WriteRunOutput(out, cfg)
}

// WriteGroups prints the grouped metric catalog using the configured output format.
func (ow *OutWriter) WriteGroups(groups []schema.MetricGroup, view map[schema.MetricGroup][]schema.MetricInfo, cfg *contract.Config) error {
	return WriteMetricGroups(groups, view, cfg)
}

// WriteLookup prints a single stored metric result using the configured output format.
func (ow *OutWriter) WriteLookup(label string, result schema.MetricResult, cfg *contract.Config) error {
	return WriteLookupResult(label, result, cfg)
}
