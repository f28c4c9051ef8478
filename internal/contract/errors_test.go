package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricError(t *testing.T) {
	cause := errors.New("boom")
	err := &MetricError{Metric: "has_readme", Phase: PhaseExecute, Err: cause}

	assert.ErrorIs(t, err, ErrMetricEvaluation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "metric has_readme execute: boom", err.Error())
}

func TestEvaluationError(t *testing.T) {
	inner := &MetricError{Metric: "m", Phase: PhaseVerify, Err: errors.New("x")}
	err := error(&EvaluationError{Repository: "R1", Err: inner})

	assert.ErrorIs(t, err, ErrMetricEvaluation)
	assert.Contains(t, err.Error(), "evaluate R1")

	var evalErr *EvaluationError
	assert.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "R1", evalErr.Repository)

	var metricErr *MetricError
	assert.True(t, errors.As(err, &metricErr))
	assert.Equal(t, PhaseVerify, metricErr.Phase)
}
