package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Runner evaluates every configured repository with a pool of workers.
type Runner struct {
	Engine    *Engine
	Git       contract.GitClient
	Installer contract.Installer
	Manifests contract.ManifestReader
	Types     []contract.MetricType
	Cfg       *contract.Config

	Reports contract.ReportStore // Optional, receives successful reports
	Runs    contract.RunStore    // Optional, tracks run history
}

// outcome is the result of processing one repository.
type outcome struct {
	ev  *evaluation
	err error
}

// Run evaluates all repositories of the config. Failing repositories are listed
// as unevaluated and never affect the others. The returned error is reserved for
// problems that stop the whole run.
func (r *Runner) Run(ctx context.Context) (*schema.RunOutput, error) {
	if err := contract.ValidateMetricTypes(r.Types); err != nil {
		return nil, err
	}

	repos := r.Cfg.Repositories
	priors := r.priorSet()
	start := time.Now()
	runID := r.beginRun(start)

	outcomes := make([]outcome, len(repos))
	jobs := make(chan int, len(repos))
	var wg sync.WaitGroup

	workers := max(r.Cfg.Workers, 1)
	for range min(workers, max(len(repos), 1)) {
		wg.Go(func() {
			for i := range jobs {
				ev, err := r.processRepository(ctx, repos[i], priors)
				outcomes[i] = outcome{ev: ev, err: err}
			}
		})
	}
	for i := range repos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	output := &schema.RunOutput{Reports: []schema.Report{}}
	for i, oc := range outcomes {
		label := repos[i].Label
		if oc.err != nil {
			contract.LogWarn(fmt.Sprintf("repository %s not evaluated", label), oc.err)
			output.Unevaluated = append(output.Unevaluated, schema.Unevaluated{Repository: label, Error: oc.err.Error()})
			continue
		}
		output.Reports = append(output.Reports, *oc.ev.report)
		r.recordReport(runID, oc.ev)
		r.persistReport(oc.ev.report)
	}

	r.endRun(runID, len(repos))
	contract.LogInfo("run finished",
		"evaluated", len(output.Reports),
		"unevaluated", len(output.Unevaluated),
		"duration", time.Since(start).Round(time.Millisecond))
	return output, ctx.Err()
}

// EvaluateOne evaluates a single repository and persists its report.
func (r *Runner) EvaluateOne(ctx context.Context, repo schema.Repository) (*schema.Report, error) {
	if err := contract.ValidateMetricTypes(r.Types); err != nil {
		return nil, err
	}
	ev, err := r.processRepository(ctx, repo, r.priorSet())
	if err != nil {
		return nil, err
	}
	r.persistReport(ev.report)
	return ev.report, nil
}

// processRepository acquires the working copy, reads its manifest and evaluates it.
func (r *Runner) processRepository(ctx context.Context, repo schema.Repository, priors *PriorReports) (*evaluation, error) {
	fail := func(err error) (*evaluation, error) {
		return nil, &contract.EvaluationError{Repository: repo.Label, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	dir := r.Cfg.RepoDir(repo)
	if r.Cfg.Fetch && !repo.Local {
		if err := r.fetch(ctx, repo, dir); err != nil {
			return fail(fmt.Errorf("fetch: %w", err))
		}
	}

	if r.Cfg.Install {
		if err := r.Installer.Install(ctx, dir); err != nil {
			return fail(fmt.Errorf("install: %w", err))
		}
		hash, err := r.Git.GetRepoHash(ctx, dir)
		if err != nil {
			return fail(fmt.Errorf("%w: %w", contract.ErrRevisionUnavailable, err))
		}
		repo.InstalledGitHash = hash
	} else if prior, ok := priors.Repository(repo.Label); ok {
		repo.InstalledGitHash = prior.InstalledGitHash
	}

	manifest, err := r.Manifests.Read(dir)
	if err != nil {
		return fail(err)
	}
	return r.Engine.evaluate(ctx, repo, dir, manifest, r.Types, r.Git, priors)
}

// fetch clones a missing working copy or brings an existing one up to date.
func (r *Runner) fetch(ctx context.Context, repo schema.Repository, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		contract.LogInfo("cloning repository", "repository", repo.Label, "dir", dir)
		return r.Git.Clone(ctx, repo.URL, repo.Branch, dir)
	} else if err != nil {
		return err
	}
	contract.LogInfo("updating repository", "repository", repo.Label, "dir", dir)
	return r.Git.Update(ctx, dir, repo.Branch)
}

// priorSet returns the prior set of the engine, or an empty one. It is resolved
// before workers start and never assigned back to the shared engine.
func (r *Runner) priorSet() *PriorReports {
	if r.Engine.Priors != nil {
		return r.Engine.Priors
	}
	return NewPriorReports(nil)
}

// beginRun starts run tracking. Tracking failures never fail the run.
func (r *Runner) beginRun(start time.Time) int64 {
	if r.Runs == nil {
		return 0
	}
	params := map[string]any{
		"repositories":   len(r.Cfg.Repositories),
		"metrics":        len(r.Types),
		"workers":        r.Cfg.Workers,
		"metricWorkers":  r.Cfg.MetricWorkers,
		"fetch":          r.Cfg.Fetch,
		"install":        r.Cfg.Install,
		"partialResults": r.Cfg.PartialResults,
	}
	runID, err := r.Runs.BeginRun(start, params)
	if err != nil {
		contract.LogWarn("failed to begin run tracking", err)
		return 0
	}
	return runID
}

func (r *Runner) recordReport(runID int64, ev *evaluation) {
	if r.Runs == nil || runID == 0 {
		return
	}
	for i, result := range ev.report.Metrics {
		if err := r.Runs.RecordMetricResult(runID, ev.report.Repository, result, ev.cached[i]); err != nil {
			contract.LogWarn(fmt.Sprintf("failed to record %s for %s", result.Info.Name, ev.report.Repository), err)
		}
	}
}

func (r *Runner) endRun(runID int64, total int) {
	if r.Runs == nil || runID == 0 {
		return
	}
	if err := r.Runs.EndRun(runID, time.Now(), total); err != nil {
		contract.LogWarn("failed to end run tracking", err)
	}
}

func (r *Runner) persistReport(report *schema.Report) {
	if r.Reports == nil {
		return
	}
	if err := r.Reports.Set(*report, time.Now().Unix()); err != nil {
		contract.LogWarn(fmt.Sprintf("failed to store report for %s", report.Repository), err)
	}
}
