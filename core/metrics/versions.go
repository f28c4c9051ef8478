package metrics

import (
	"context"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Metric names of the Versions group.
const (
	ReactVersionName      = "react_version"
	TypescriptVersionName = "typescript_version"
)

// declaredVersion reports the declared range of one dependency.
type declaredVersion struct {
	base
	name, pkg, description string
}

func newReactVersion(ec *contract.EvaluationContext) contract.Metric {
	return &declaredVersion{base{ec}, ReactVersionName, "react", "Declared React version"}
}

func newTypescriptVersion(ec *contract.EvaluationContext) contract.Metric {
	return &declaredVersion{base{ec}, TypescriptVersionName, "typescript", "Declared TypeScript version"}
}

func (m *declaredVersion) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        m.name,
		Group:       schema.VersionsGroup,
		Description: m.description,
	}
}

func (m *declaredVersion) Verify(context.Context) (bool, error) {
	_, ok := m.ec.Dependency(m.pkg)
	return ok, nil
}

func (m *declaredVersion) Execute(context.Context) (any, error) {
	v, _ := m.ec.Dependency(m.pkg)
	return map[string]any{"version": v}, nil
}

func (m *declaredVersion) Schema() schema.ResultSchema {
	return schema.ResultSchema{"version": "string (semver range)"}
}
