package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
	"golang.org/x/sync/errgroup"
)

// Engine evaluates metric types against one repository at a time.
type Engine struct {
	Registry *Registry
	Priors   *PriorReports // Lookup used when Evaluate receives none

	// PartialResults keeps sibling results when a metric fails. The failed
	// metric is reported as unavailable with its error attached.
	PartialResults bool

	// MetricWorkers bounds in-flight metrics per repository. 0 = unlimited.
	MetricWorkers int
}

// NewEngine creates an engine with an empty registry and prior report set.
func NewEngine() *Engine {
	return &Engine{
		Registry: NewRegistry(),
		Priors:   NewPriorReports(nil),
	}
}

// evaluation is the outcome of one repository batch.
type evaluation struct {
	report *schema.Report
	cached []bool // cached[i] is true when report.Metrics[i] came from the prior set
}

// Evaluate runs every metric type against the repository and aggregates the results
// in the order of types. Any failure aborts the batch and returns an *contract.EvaluationError.
func (e *Engine) Evaluate(
	ctx context.Context,
	repo schema.Repository,
	dir string,
	manifest schema.Manifest,
	types []contract.MetricType,
	oracle contract.RevisionOracle,
	priors contract.PriorReportLookup,
) (*schema.Report, error) {
	ev, err := e.evaluate(ctx, repo, dir, manifest, types, oracle, priors)
	if err != nil {
		return nil, err
	}
	return ev.report, nil
}

func (e *Engine) evaluate(
	ctx context.Context,
	repo schema.Repository,
	dir string,
	manifest schema.Manifest,
	types []contract.MetricType,
	oracle contract.RevisionOracle,
	priors contract.PriorReportLookup,
) (*evaluation, error) {
	fail := func(err error) (*evaluation, error) {
		return nil, &contract.EvaluationError{Repository: repo.Label, Err: err}
	}

	if err := contract.ValidateMetricTypes(types); err != nil {
		return fail(err)
	}
	priors = lookupOrNil(priors)
	if priors == nil && e.Priors != nil {
		priors = e.Priors
	}

	ec := contract.NewEvaluationContext(repo, dir, manifest)
	instances := make([]contract.Metric, len(types))
	for i, mt := range types {
		m := mt.New(ec)
		if m == nil {
			return fail(fmt.Errorf("%w: metric type %q constructed nil", contract.ErrContractViolation, mt.Name))
		}
		instances[i] = m
		if e.Registry != nil {
			e.Registry.RegisterIfAbsent(describe(m))
		}
	}

	// One revision per batch keeps every metric on the same snapshot.
	if oracle == nil {
		return fail(fmt.Errorf("%w: no revision oracle", contract.ErrRevisionUnavailable))
	}
	revision, err := oracle.GetRepoHash(ctx, dir)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", contract.ErrRevisionUnavailable, err))
	}

	results := make([]schema.MetricResult, len(instances))
	cached := make([]bool, len(instances))

	g, gctx := errgroup.WithContext(ctx)
	if e.MetricWorkers > 0 {
		g.SetLimit(e.MetricWorkers)
	}
	for i, m := range instances {
		g.Go(func() error {
			result, hit, err := evaluateMetric(gctx, repo.Label, m, revision, priors)
			if err != nil {
				if !e.PartialResults || gctx.Err() != nil {
					return err
				}
				contract.LogWarn(fmt.Sprintf("metric failed for %s, keeping siblings", repo.Label), err)
				result = schema.MetricResult{
					Info:           m.Info(),
					Result:         schema.UnavailableResult,
					HashLastCommit: revision,
					Error:          err.Error(),
				}
			}
			results[i] = result
			cached[i] = hit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	return &evaluation{report: BuildReport(repo, results), cached: cached}, nil
}

// evaluateMetric resolves one metric: prior result on a revision match, else verify then execute.
func evaluateMetric(
	ctx context.Context,
	label string,
	m contract.Metric,
	revision string,
	priors contract.PriorReportLookup,
) (schema.MetricResult, bool, error) {
	info := m.Info()

	if priors != nil {
		if prior, ok := priors.PriorResult(label, info.Name); ok && prior.HashLastCommit == revision && prior.Error == "" {
			contract.LogInfo("used from last report", "repository", label, "metric", info.Name)
			return prior, true, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return schema.MetricResult{}, false, err
	}

	ok, err := m.Verify(ctx)
	if err != nil {
		return schema.MetricResult{}, false, metricError(ctx, info.Name, contract.PhaseVerify, err)
	}
	if !ok {
		contract.LogInfo("metric unavailable", "repository", label, "metric", info.Name)
		return schema.MetricResult{Info: info, Result: schema.UnavailableResult, HashLastCommit: revision}, false, nil
	}

	out, err := m.Execute(ctx)
	if err != nil {
		return schema.MetricResult{}, false, metricError(ctx, info.Name, contract.PhaseExecute, err)
	}
	return schema.MetricResult{Info: info, Result: NormalizeResult(out), HashLastCommit: revision}, false, nil
}

// lookupOrNil treats a typed nil lookup, such as a nil *PriorReports, as no lookup.
func lookupOrNil(l contract.PriorReportLookup) contract.PriorReportLookup {
	if l == nil {
		return nil
	}
	if v := reflect.ValueOf(l); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return l
}

// metricError wraps a plugin failure. Cancellation is passed through untouched.
func metricError(ctx context.Context, name, phase string, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	return &contract.MetricError{Metric: name, Phase: phase, Err: err}
}

// BuildReport assembles the report for a repository from ordered results.
func BuildReport(repo schema.Repository, results []schema.MetricResult) *schema.Report {
	if results == nil {
		results = []schema.MetricResult{}
	}
	return &schema.Report{
		Repository:       repo.Label,
		Metrics:          results,
		InstalledGitHash: repo.InstalledGitHash,
	}
}
