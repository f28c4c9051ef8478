// Package core has core logic for evaluating repository metrics.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/repometrics/core/metrics"
	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/internal/manifest"
	"github.com/huangsam/repometrics/internal/outwriter"
	"github.com/huangsam/repometrics/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteRun evaluates every configured repository and prints the reports.
// It serves as the main entry point for the 'run' command.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	runner, err := NewRunner(cfg, mgr, contract.NewLocalGitClient(), contract.NewLocalInstaller())
	if err != nil {
		return err
	}
	out, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := outwriter.WriteRunOutput(out, cfg); err != nil {
		return err
	}
	if cfg.Strict && len(out.Unevaluated) > 0 {
		return fmt.Errorf("%d of %d repositories were not evaluated", len(out.Unevaluated), len(cfg.Repositories))
	}
	return nil
}

// ExecuteMetricsListing prints the configured metric set grouped for presentation.
func ExecuteMetricsListing(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	registry, err := MetricRegistry(cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteMetricGroups(registry.Groups(), registry.GroupedView(), cfg)
}

// ExecuteReportLookup prints the prior result of one metric for one repository.
func ExecuteReportLookup(_ context.Context, cfg *contract.Config, mgr contract.StoreManager, label, metric string) error {
	result, err := GetMetricResult(cfg, mgr, label, metric)
	if err != nil {
		return err
	}
	return outwriter.WriteLookupResult(label, result, cfg)
}

// ExecuteReportShow prints the prior reports, optionally narrowed to one repository.
func ExecuteReportShow(_ context.Context, cfg *contract.Config, mgr contract.StoreManager, label string) error {
	reports, err := LoadPriorReports(cfg, reportStore(mgr))
	if err != nil {
		return err
	}
	if label != "" {
		prior := NewPriorReports(reports)
		report, ok := prior.Repository(label)
		if !ok {
			return fmt.Errorf("%w: %s", contract.ErrReportNotFound, label)
		}
		reports = []schema.Report{report}
	}
	if len(reports) == 0 {
		return fmt.Errorf("%w: no reports stored yet", contract.ErrReportNotFound)
	}
	return outwriter.WriteRunOutput(&schema.RunOutput{Reports: reports}, cfg)
}

// NewRunner wires the metric set, prior reports and stores of the configuration into a Runner.
func NewRunner(cfg *contract.Config, mgr contract.StoreManager, git contract.GitClient, installer contract.Installer) (*Runner, error) {
	types, err := metrics.Lookup(cfg.Metrics, metrics.Options{RegistryLookups: cfg.RegistryLookups})
	if err != nil {
		return nil, err
	}

	reports := reportStore(mgr)
	prior, err := LoadPriorReports(cfg, reports)
	if err != nil {
		return nil, err
	}
	contract.LogInfo("loaded prior reports", "count", len(prior))

	engine := &Engine{
		Registry:       NewRegistry(),
		Priors:         NewPriorReports(prior),
		PartialResults: cfg.PartialResults,
		MetricWorkers:  cfg.MetricWorkers,
	}

	return &Runner{
		Engine:    engine,
		Git:       git,
		Installer: installer,
		Manifests: manifest.Reader{},
		Types:     types,
		Cfg:       cfg,
		Reports:   reports,
		Runs:      runStore(mgr),
	}, nil
}

// EvaluateRepository evaluates one configured repository by label.
func EvaluateRepository(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, label string) (*schema.Report, error) {
	repo, ok := cfg.Repository(label)
	if !ok {
		return nil, fmt.Errorf("%w: %s", contract.ErrUnknownRepository, label)
	}
	runner, err := NewRunner(cfg, mgr, contract.NewLocalGitClient(), contract.NewLocalInstaller())
	if err != nil {
		return nil, err
	}
	return runner.EvaluateOne(ctx, repo)
}

// ExecuteTimeseries evaluates the recent commits of one repository and prints a point per commit.
func ExecuteTimeseries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, label string) error {
	repo, ok := cfg.Repository(label)
	if !ok {
		return fmt.Errorf("%w: %s", contract.ErrUnknownRepository, label)
	}
	runner, err := NewRunner(cfg, mgr, contract.NewLocalGitClient(), contract.NewLocalInstaller())
	if err != nil {
		return err
	}
	out, err := runner.Timeseries(ctx, repo, cfg.Commits)
	if err != nil {
		return err
	}
	return outwriter.WriteTimeseriesOutput(out, cfg)
}

// GetMetricResult returns the prior result of one metric for one repository.
func GetMetricResult(cfg *contract.Config, mgr contract.StoreManager, label, metric string) (schema.MetricResult, error) {
	reports, err := LoadPriorReports(cfg, reportStore(mgr))
	if err != nil {
		return schema.MetricResult{}, err
	}
	result, ok := LookupResult(reports, label, metric)
	if !ok {
		return schema.MetricResult{}, fmt.Errorf("%w: metric %s for %s", contract.ErrReportNotFound, metric, label)
	}
	return result, nil
}

// MetricRegistry returns a registry holding the configured metric set.
func MetricRegistry(cfg *contract.Config) (*Registry, error) {
	types, err := metrics.Lookup(cfg.Metrics, metrics.Options{RegistryLookups: cfg.RegistryLookups})
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	if err := registry.RegisterTypes(types); err != nil {
		return nil, err
	}
	return registry, nil
}

func reportStore(mgr contract.StoreManager) contract.ReportStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetReportStore()
}

func runStore(mgr contract.StoreManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}
