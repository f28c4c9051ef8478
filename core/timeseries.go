package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// timeseriesHashLen names the scratch worktree of a commit.
const timeseriesHashLen = 12

// Timeseries evaluates the metric set at each of the most recent commits of one
// repository, newest first. Every commit is checked out into its own scratch
// worktree so the working copy is never moved. A commit that cannot be evaluated
// keeps its error in the point and the walk goes on. Reports are not persisted.
func (r *Runner) Timeseries(ctx context.Context, repo schema.Repository, commits int) (*schema.TimeseriesOutput, error) {
	if err := contract.ValidateMetricTypes(r.Types); err != nil {
		return nil, err
	}
	fail := func(err error) (*schema.TimeseriesOutput, error) {
		return nil, &contract.EvaluationError{Repository: repo.Label, Err: err}
	}

	dir := r.Cfg.RepoDir(repo)
	if r.Cfg.Fetch && !repo.Local {
		if err := r.fetch(ctx, repo, dir); err != nil {
			return fail(fmt.Errorf("fetch: %w", err))
		}
	}

	history, err := r.Git.ListCommits(ctx, dir, commits)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", contract.ErrRevisionUnavailable, err))
	}

	priors := r.priorSet()
	if prior, ok := priors.Repository(repo.Label); ok {
		repo.InstalledGitHash = prior.InstalledGitHash
	}

	root, err := os.MkdirTemp("", "repometrics-timeseries-*")
	if err != nil {
		return fail(err)
	}
	defer func() { _ = os.RemoveAll(root) }()

	start := time.Now()
	out := &schema.TimeseriesOutput{Repository: repo.Label, Points: make([]schema.CommitReport, 0, len(history))}
	for _, commit := range history {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		point := schema.CommitReport{Commit: commit}
		report, err := r.evaluateCommit(ctx, repo, dir, filepath.Join(root, abbrev(commit.Hash)), commit.Hash, priors)
		if err != nil {
			if ctx.Err() != nil {
				return fail(ctx.Err())
			}
			contract.LogWarn(fmt.Sprintf("commit %s of %s not evaluated", abbrev(commit.Hash), repo.Label), err)
			point.Error = err.Error()
		} else {
			point.Report = report
		}
		out.Points = append(out.Points, point)
	}

	contract.LogInfo("timeseries finished",
		"repository", repo.Label,
		"commits", len(out.Points),
		"duration", time.Since(start).Round(time.Millisecond))
	return out, nil
}

// evaluateCommit checks out one commit into wt, evaluates it and removes the worktree.
func (r *Runner) evaluateCommit(
	ctx context.Context,
	repo schema.Repository,
	dir, wt, hash string,
	priors *PriorReports,
) (*schema.Report, error) {
	if err := r.Git.AddWorktree(ctx, dir, wt, hash); err != nil {
		return nil, fmt.Errorf("%w: %w", contract.ErrRevisionUnavailable, err)
	}
	defer func() {
		if err := r.Git.RemoveWorktree(context.WithoutCancel(ctx), dir, wt); err != nil {
			contract.LogWarn(fmt.Sprintf("failed to remove worktree %s", wt), err)
		}
	}()

	manifest, err := r.Manifests.Read(wt)
	if err != nil {
		return nil, err
	}
	return r.Engine.Evaluate(ctx, repo, wt, manifest, r.Types, r.Git, priors)
}

func abbrev(hash string) string {
	if len(hash) > timeseriesHashLen {
		return hash[:timeseriesHashLen]
	}
	return hash
}
