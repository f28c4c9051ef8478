package core

import (
	"slices"
	"sync"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// PriorReports holds the most recently loaded report set.
// Load replaces the set wholesale; readers never see a partial set.
type PriorReports struct {
	mu      sync.RWMutex
	reports []schema.Report
}

var _ contract.PriorReportLookup = &PriorReports{} // Compile-time check

// NewPriorReports creates a prior report set from a copy of reports.
func NewPriorReports(reports []schema.Report) *PriorReports {
	p := &PriorReports{}
	p.Load(reports)
	return p
}

// Load replaces the held set with a copy of reports.
func (p *PriorReports) Load(reports []schema.Report) {
	loaded := copyReports(reports)
	p.mu.Lock()
	p.reports = loaded
	p.mu.Unlock()
}

// Reports returns a copy of the held set.
func (p *PriorReports) Reports() []schema.Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return copyReports(p.reports)
}

// PriorResult implements contract.PriorReportLookup.
func (p *PriorReports) PriorResult(label, metric string) (schema.MetricResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return LookupResult(p.reports, label, metric)
}

// Repository returns the last held report for label.
func (p *PriorReports) Repository(label string) (schema.Report, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := len(p.reports) - 1; i >= 0; i-- {
		if p.reports[i].Repository == label {
			return copyReports(p.reports[i : i+1])[0], true
		}
	}
	return schema.Report{}, false
}

// LookupResult scans reports in order and returns the last result recorded
// for metric under label.
func LookupResult(reports []schema.Report, label, metric string) (schema.MetricResult, bool) {
	var (
		found schema.MetricResult
		ok    bool
	)
	for _, report := range reports {
		if report.Repository != label {
			continue
		}
		for _, result := range report.Metrics {
			if result.Info.Name == metric {
				found, ok = result, true
			}
		}
	}
	return found, ok
}

func copyReports(reports []schema.Report) []schema.Report {
	if reports == nil {
		return nil
	}
	out := make([]schema.Report, len(reports))
	for i, r := range reports {
		r.Metrics = slices.Clone(r.Metrics)
		out[i] = r
	}
	return out
}
