package metrics

import (
	"context"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Metric names of the Random group.
const (
	DependencyCountName = "dependency_count"
	PackageManagerName  = "package_manager"
)

type dependencyCount struct{ base }

func newDependencyCount(ec *contract.EvaluationContext) contract.Metric {
	return &dependencyCount{base{ec}}
}

func (m *dependencyCount) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        DependencyCountName,
		Group:       schema.RandomGroup,
		Description: "Number of declared dependencies",
	}
}

func (m *dependencyCount) Verify(context.Context) (bool, error) { return true, nil }

func (m *dependencyCount) Execute(context.Context) (any, error) {
	manifest := m.ec.Manifest()
	return map[string]any{
		"dependencies":    len(manifest.Dependencies),
		"devDependencies": len(manifest.DevDependencies),
		"total":           len(m.ec.Dependencies()),
	}, nil
}

func (m *dependencyCount) Schema() schema.ResultSchema {
	return schema.ResultSchema{
		"dependencies":    "int",
		"devDependencies": "int",
		"total":           "int (unique package names)",
	}
}

type packageManager struct{ base }

func newPackageManager(ec *contract.EvaluationContext) contract.Metric {
	return &packageManager{base{ec}}
}

func (m *packageManager) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        PackageManagerName,
		Group:       schema.RandomGroup,
		Description: "Package manager that wrote the committed lockfile",
	}
}

// Verify applies only when a lockfile is committed.
func (m *packageManager) Verify(context.Context) (bool, error) {
	_, ok := m.lockfile()
	return ok, nil
}

func (m *packageManager) Execute(context.Context) (any, error) {
	kind, _ := m.lockfile()
	return map[string]any{"manager": kind}, nil
}

func (m *packageManager) Schema() schema.ResultSchema {
	return schema.ResultSchema{"manager": "string (yarn|npm|pnpm)"}
}
