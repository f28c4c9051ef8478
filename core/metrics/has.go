package metrics

import (
	"context"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Metric names of the Has group.
const (
	HasLintConfigName = "has_lint_config"
	HasTestConfigName = "has_test_config"
	HasLockfileName   = "has_lockfile"
	HasReadmeName     = "has_readme"
)

var (
	eslintFiles = []string{".eslintrc", ".eslintrc.json", ".eslintrc.js", ".eslintrc.cjs", ".eslintrc.yml", ".eslintrc.yaml", "eslint.config.js", "eslint.config.mjs"}
	jestFiles   = []string{"jest.config.js", "jest.config.ts", "jest.config.mjs", "jest.config.cjs"}
	readmeFiles = []string{"README.md", "README", "readme.md", "Readme.md"}
)

// lockfiles maps lockfile names to the package manager that writes them.
var lockfiles = []struct{ file, kind string }{
	{"yarn.lock", "yarn"},
	{"package-lock.json", "npm"},
	{"pnpm-lock.yaml", "pnpm"},
}

// lockfile returns the package manager of the first lockfile found.
func (b base) lockfile() (string, bool) {
	for _, lf := range lockfiles {
		if _, ok := b.firstExisting(lf.file); ok {
			return lf.kind, true
		}
	}
	return "", false
}

type hasLintConfig struct{ base }

func newHasLintConfig(ec *contract.EvaluationContext) contract.Metric {
	return &hasLintConfig{base{ec}}
}

func (m *hasLintConfig) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        HasLintConfigName,
		Group:       schema.HasGroup,
		Description: "Repository has an ESLint configuration",
	}
}

func (m *hasLintConfig) Verify(context.Context) (bool, error) { return true, nil }

func (m *hasLintConfig) Execute(context.Context) (any, error) {
	_, found := m.firstExisting(eslintFiles...)
	return schema.Verdict{Result: found || m.manifestHas("eslintConfig")}, nil
}

func (m *hasLintConfig) Schema() schema.ResultSchema { return verdictSchema }

type hasTestConfig struct{ base }

func newHasTestConfig(ec *contract.EvaluationContext) contract.Metric {
	return &hasTestConfig{base{ec}}
}

func (m *hasTestConfig) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        HasTestConfigName,
		Group:       schema.HasGroup,
		Description: "Repository has a Jest configuration",
	}
}

func (m *hasTestConfig) Verify(context.Context) (bool, error) { return true, nil }

func (m *hasTestConfig) Execute(context.Context) (any, error) {
	_, found := m.firstExisting(jestFiles...)
	return map[string]any{"result": found || m.manifestHas("jest")}, nil
}

func (m *hasTestConfig) Schema() schema.ResultSchema { return verdictSchema }

type hasLockfile struct{ base }

func newHasLockfile(ec *contract.EvaluationContext) contract.Metric {
	return &hasLockfile{base{ec}}
}

func (m *hasLockfile) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        HasLockfileName,
		Group:       schema.HasGroup,
		Description: "Repository commits a dependency lockfile",
	}
}

func (m *hasLockfile) Verify(context.Context) (bool, error) { return true, nil }

func (m *hasLockfile) Execute(context.Context) (any, error) {
	_, found := m.lockfile()
	return schema.Verdict{Result: found}, nil
}

func (m *hasLockfile) Schema() schema.ResultSchema { return verdictSchema }

type hasReadme struct{ base }

func newHasReadme(ec *contract.EvaluationContext) contract.Metric {
	return &hasReadme{base{ec}}
}

func (m *hasReadme) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        HasReadmeName,
		Group:       schema.HasGroup,
		Description: "Repository has a README",
	}
}

func (m *hasReadme) Verify(context.Context) (bool, error) { return true, nil }

func (m *hasReadme) Execute(context.Context) (any, error) {
	_, found := m.firstExisting(readmeFiles...)
	return schema.Verdict{Result: found}, nil
}

func (m *hasReadme) Schema() schema.ResultSchema { return verdictSchema }
