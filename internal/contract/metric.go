package contract

import (
	"fmt"
	"maps"

	"github.com/huangsam/repometrics/schema"
)

// EvaluationContext is everything a metric can see about one repository.
// It is read-only once built.
type EvaluationContext struct {
	repo         schema.Repository
	dir          string
	manifest     schema.Manifest
	dependencies map[string]string
}

// NewEvaluationContext builds a context. Runtime dependencies overwrite
// development dependencies that share a name.
func NewEvaluationContext(repo schema.Repository, dir string, manifest schema.Manifest) *EvaluationContext {
	deps := make(map[string]string, len(manifest.Dependencies)+len(manifest.DevDependencies))
	maps.Copy(deps, manifest.DevDependencies)
	maps.Copy(deps, manifest.Dependencies)
	return &EvaluationContext{
		repo:         repo,
		dir:          dir,
		manifest:     manifest,
		dependencies: deps,
	}
}

// Repository returns the repository descriptor.
func (ec *EvaluationContext) Repository() schema.Repository { return ec.repo }

// Dir returns the working directory path.
func (ec *EvaluationContext) Dir() string { return ec.dir }

// Manifest returns the parsed manifest.
func (ec *EvaluationContext) Manifest() schema.Manifest { return ec.manifest }

// Dependencies returns a copy of the merged dependency set.
func (ec *EvaluationContext) Dependencies() map[string]string {
	return maps.Clone(ec.dependencies)
}

// Dependency returns the declared range of a dependency.
func (ec *EvaluationContext) Dependency(name string) (string, bool) {
	v, ok := ec.dependencies[name]
	return v, ok
}

// Script returns a manifest script by name.
func (ec *EvaluationContext) Script(name string) (string, bool) {
	v, ok := ec.manifest.Scripts[name]
	return v, ok
}

// ValidateMetricTypes rejects malformed metric types before any repository is evaluated.
func ValidateMetricTypes(types []MetricType) error {
	sample := NewEvaluationContext(schema.Repository{}, "", schema.Manifest{})
	for i, mt := range types {
		if mt.New == nil {
			return fmt.Errorf("%w: metric type #%d (%q) has no constructor", ErrContractViolation, i+1, mt.Name)
		}
		m := mt.New(sample)
		if m == nil {
			return fmt.Errorf("%w: metric type %q constructed nil", ErrContractViolation, mt.Name)
		}
		name := m.Info().Name
		if name == "" {
			return fmt.Errorf("%w: metric type %q has an empty name", ErrContractViolation, mt.Name)
		}
		if mt.Name != "" && mt.Name != name {
			return fmt.Errorf("%w: metric type %q describes itself as %q", ErrContractViolation, mt.Name, name)
		}
	}
	return nil
}
