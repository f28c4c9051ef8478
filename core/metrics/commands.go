package metrics

import (
	"context"
	"strings"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Metric names of the Commands group.
const (
	TestScriptName = "test_script"
	LintScriptName = "lint_script"
)

// npmTestPlaceholder is what npm init writes as the default test script.
const npmTestPlaceholder = "no test specified"

// scriptMetric checks that a manifest script does real work.
type scriptMetric struct {
	base
	name, script, description string
}

func newTestScript(ec *contract.EvaluationContext) contract.Metric {
	return &scriptMetric{base{ec}, TestScriptName, "test", "Manifest declares a working test script"}
}

func newLintScript(ec *contract.EvaluationContext) contract.Metric {
	return &scriptMetric{base{ec}, LintScriptName, "lint", "Manifest declares a working lint script"}
}

func (m *scriptMetric) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        m.name,
		Group:       schema.CommandsGroup,
		Description: m.description,
	}
}

func (m *scriptMetric) Verify(context.Context) (bool, error) {
	_, ok := m.ec.Script(m.script)
	return ok, nil
}

func (m *scriptMetric) Execute(context.Context) (any, error) {
	cmd, _ := m.ec.Script(m.script)
	cmd = strings.TrimSpace(cmd)
	return schema.Verdict{Result: cmd != "" && !strings.Contains(cmd, npmTestPlaceholder)}, nil
}

func (m *scriptMetric) Schema() schema.ResultSchema { return verdictSchema }
