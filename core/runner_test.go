package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/internal/iocache"
	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// dirManifests fails for the listed directories.
type dirManifests map[string]error

func (d dirManifests) Read(dir string) (schema.Manifest, error) {
	if err, ok := d[dir]; ok {
		return schema.Manifest{}, err
	}
	return schema.Manifest{Name: "app"}, nil
}

func localRepo(t *testing.T, label string) schema.Repository {
	t.Helper()
	return schema.Repository{Label: label, Local: true, Path: t.TempDir()}
}

func newTestRunner(cfg *contract.Config, git contract.GitClient, manifests contract.ManifestReader, types ...contract.MetricType) *Runner {
	return &Runner{
		Engine:    NewEngine(),
		Git:       git,
		Installer: &contract.MockInstaller{},
		Manifests: manifests,
		Types:     types,
		Cfg:       cfg,
	}
}

func TestRunner_Run(t *testing.T) {
	web, api := localRepo(t, "web"), localRepo(t, "api")
	cfg := &contract.Config{Repositories: []schema.Repository{web, api}, Workers: 2}

	git := &contract.MockGitClient{}
	git.On("GetRepoHash", mock.Anything, web.Path).Return("abc123", nil)

	m := &stubType{name: "M", group: schema.HasGroup}
	runner := newTestRunner(cfg, git, dirManifests{api.Path: contract.ErrManifestMissing}, m.metricType())

	out, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Reports, 1)
	assert.Equal(t, "web", out.Reports[0].Repository)
	assert.Equal(t, "abc123", out.Reports[0].Metrics[0].HashLastCommit)

	require.Len(t, out.Unevaluated, 1)
	assert.Equal(t, "api", out.Unevaluated[0].Repository)
	assert.Contains(t, out.Unevaluated[0].Error, contract.ErrManifestMissing.Error())
	git.AssertExpectations(t)
}

// Run under -race: workers share an engine that was built without a prior set.
func TestRunner_Run_EngineWithoutPriors(t *testing.T) {
	var repos []schema.Repository
	for i := range 8 {
		repos = append(repos, localRepo(t, string(rune('a'+i))))
	}
	cfg := &contract.Config{Repositories: repos, Workers: 8}

	git := &contract.MockGitClient{}
	git.On("GetRepoHash", mock.Anything, mock.Anything).Return("abc123", nil)

	runner := newTestRunner(cfg, git, dirManifests{}, (&stubType{name: "M"}).metricType())
	runner.Engine = &Engine{Registry: NewRegistry()}

	out, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Reports, 8)
	assert.Empty(t, out.Unevaluated)
	assert.Nil(t, runner.Engine.Priors)
}

func TestRunner_Run_PreservesConfigOrder(t *testing.T) {
	repos := []schema.Repository{localRepo(t, "a"), localRepo(t, "b"), localRepo(t, "c"), localRepo(t, "d")}
	cfg := &contract.Config{Repositories: repos, Workers: 3}

	git := &contract.MockGitClient{}
	git.On("GetRepoHash", mock.Anything, mock.Anything).Return("abc123", nil)

	runner := newTestRunner(cfg, git, dirManifests{}, (&stubType{name: "M"}).metricType())
	out, err := runner.Run(context.Background())
	require.NoError(t, err)

	var labels []string
	for _, r := range out.Reports {
		labels = append(labels, r.Repository)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, labels)
}

func TestRunner_Run_RejectsMalformedTypes(t *testing.T) {
	cfg := &contract.Config{Repositories: []schema.Repository{localRepo(t, "web")}}
	runner := newTestRunner(cfg, &contract.MockGitClient{}, dirManifests{}, contract.MetricType{Name: "broken"})

	_, err := runner.Run(context.Background())
	assert.ErrorIs(t, err, contract.ErrContractViolation)
}

func TestRunner_Run_TracksRun(t *testing.T) {
	web := localRepo(t, "web")
	cfg := &contract.Config{Repositories: []schema.Repository{web}, Workers: 1}

	git := &contract.MockGitClient{}
	git.On("GetRepoHash", mock.Anything, web.Path).Return("abc123", nil)

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything, mock.Anything).Return(int64(7), nil)
	runs.On("RecordMetricResult", int64(7), "web", mock.Anything, false).Return(nil).Twice()
	runs.On("EndRun", int64(7), mock.Anything, 1).Return(nil)

	reports := &iocache.MockReportStore{}
	reports.On("Set", mock.MatchedBy(func(r schema.Report) bool { return r.Repository == "web" }), mock.Anything).Return(nil)

	runner := newTestRunner(cfg, git, dirManifests{}, (&stubType{name: "A"}).metricType(), (&stubType{name: "B"}).metricType())
	runner.Runs = runs
	runner.Reports = reports

	out, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Reports, 1)
	runs.AssertExpectations(t)
	reports.AssertExpectations(t)
}

func TestRunner_Run_TrackingFailureIsNotFatal(t *testing.T) {
	web := localRepo(t, "web")
	cfg := &contract.Config{Repositories: []schema.Repository{web}, Workers: 1}

	git := &contract.MockGitClient{}
	git.On("GetRepoHash", mock.Anything, web.Path).Return("abc123", nil)

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything, mock.Anything).Return(int64(0), errors.New("database is locked"))

	reports := &iocache.MockReportStore{}
	reports.On("Set", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	runner := newTestRunner(cfg, git, dirManifests{}, (&stubType{name: "A"}).metricType())
	runner.Runs = runs
	runner.Reports = reports

	out, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Reports, 1)
	runs.AssertNotCalled(t, "RecordMetricResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	runs.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunner_Install(t *testing.T) {
	web := localRepo(t, "web")
	cfg := &contract.Config{Repositories: []schema.Repository{web}, Workers: 1, Install: true}

	git := &contract.MockGitClient{}
	git.On("GetRepoHash", mock.Anything, web.Path).Return("abc123", nil)
	installer := &contract.MockInstaller{}
	installer.On("Install", mock.Anything, web.Path).Return(nil)

	runner := newTestRunner(cfg, git, dirManifests{}, (&stubType{name: "A"}).metricType())
	runner.Installer = installer

	report, err := runner.EvaluateOne(context.Background(), web)
	require.NoError(t, err)
	assert.Equal(t, "abc123", report.InstalledGitHash)
	installer.AssertExpectations(t)
}

func TestRunner_InstallFailure(t *testing.T) {
	web := localRepo(t, "web")
	cfg := &contract.Config{Repositories: []schema.Repository{web}, Workers: 1, Install: true}

	installer := &contract.MockInstaller{}
	installer.On("Install", mock.Anything, web.Path).Return(errors.New("npm install failed"))

	runner := newTestRunner(cfg, &contract.MockGitClient{}, dirManifests{}, (&stubType{name: "A"}).metricType())
	runner.Installer = installer

	_, err := runner.EvaluateOne(context.Background(), web)
	var evalErr *contract.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "web", evalErr.Repository)
	assert.Contains(t, err.Error(), "install")
}

func TestRunner_CarriesPriorInstalledHash(t *testing.T) {
	web := localRepo(t, "web")
	cfg := &contract.Config{Repositories: []schema.Repository{web}, Workers: 1}

	git := &contract.MockGitClient{}
	git.On("GetRepoHash", mock.Anything, web.Path).Return("def456", nil)

	runner := newTestRunner(cfg, git, dirManifests{}, (&stubType{name: "A"}).metricType())
	runner.Engine.Priors = NewPriorReports([]schema.Report{{Repository: "web", InstalledGitHash: "abc123"}})

	report, err := runner.EvaluateOne(context.Background(), web)
	require.NoError(t, err)
	assert.Equal(t, "abc123", report.InstalledGitHash)
	assert.Equal(t, "def456", report.Metrics[0].HashLastCommit)
}

func TestRunner_FetchClonesMissingCopy(t *testing.T) {
	repo := schema.Repository{Label: "web", URL: "https://example.com/org/web.git", Branch: "main"}
	cfg := &contract.Config{Repositories: []schema.Repository{repo}, WorkDir: t.TempDir(), Workers: 1, Fetch: true}
	dir := cfg.RepoDir(repo)

	git := &contract.MockGitClient{}
	git.On("Clone", mock.Anything, repo.URL, "main", dir).Return(errors.New("authentication required"))

	runner := newTestRunner(cfg, git, dirManifests{}, (&stubType{name: "A"}).metricType())
	out, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Unevaluated, 1)
	assert.Contains(t, out.Unevaluated[0].Error, "authentication required")
	git.AssertExpectations(t)
}
