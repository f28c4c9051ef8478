package core

import (
	"context"
	"sync/atomic"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// stubMetric is a configurable metric that counts its calls.
type stubMetric struct {
	info    schema.MetricInfo
	verify  func(ctx context.Context) (bool, error)
	execute func(ctx context.Context) (any, error)

	verifies *atomic.Int32
	executes *atomic.Int32
}

var _ contract.Metric = &stubMetric{} // Compile-time check

func (s *stubMetric) Info() schema.MetricInfo { return s.info }

func (s *stubMetric) Verify(ctx context.Context) (bool, error) {
	s.verifies.Add(1)
	if s.verify == nil {
		return true, nil
	}
	return s.verify(ctx)
}

func (s *stubMetric) Execute(ctx context.Context) (any, error) {
	s.executes.Add(1)
	if s.execute == nil {
		return schema.Verdict{Result: true}, nil
	}
	return s.execute(ctx)
}

func (s *stubMetric) Schema() schema.ResultSchema {
	return schema.ResultSchema{"result": "string"}
}

// stubType builds a metric type whose instances share the call counters.
type stubType struct {
	name    string
	group   schema.MetricGroup
	verify  func(ctx context.Context) (bool, error)
	execute func(ctx context.Context) (any, error)

	verifies atomic.Int32
	executes atomic.Int32
}

func (st *stubType) metricType() contract.MetricType {
	return contract.MetricType{
		Name: st.name,
		New: func(*contract.EvaluationContext) contract.Metric {
			return &stubMetric{
				info:     schema.MetricInfo{Name: st.name, Group: st.group, Description: st.name + " stub"},
				verify:   st.verify,
				execute:  st.execute,
				verifies: &st.verifies,
				executes: &st.executes,
			}
		},
	}
}

func fixedRevision(hash string) contract.RevisionFunc {
	return func(context.Context, string) (string, error) { return hash, nil }
}

// stubManifests returns the same manifest for every directory.
type stubManifests struct {
	manifest schema.Manifest
	err      error
}

func (s stubManifests) Read(string) (schema.Manifest, error) { return s.manifest, s.err }
