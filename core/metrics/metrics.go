// Package metrics has the built-in metric plugins.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Options tunes the built-in metrics.
type Options struct {
	// RegistryLookups allows metrics to query the package registry.
	RegistryLookups bool

	// Latest resolves the latest published version of a package.
	// Nil uses the public npm registry.
	Latest LatestVersionFunc

	// LookupWorkers bounds concurrent registry lookups per repository.
	LookupWorkers int
}

// verdictSchema is shared by boolean metrics.
var verdictSchema = schema.ResultSchema{"result": "string (true|false)"}

// Catalog returns every built-in metric type in presentation order.
func Catalog(opts Options) []contract.MetricType {
	return []contract.MetricType{
		{Name: HasLintConfigName, New: newHasLintConfig},
		{Name: HasTestConfigName, New: newHasTestConfig},
		{Name: HasLockfileName, New: newHasLockfile},
		{Name: HasReadmeName, New: newHasReadme},
		{Name: ReactVersionName, New: newReactVersion},
		{Name: TypescriptVersionName, New: newTypescriptVersion},
		{Name: OutdatedDependenciesName, New: newOutdatedDependencies(opts)},
		{Name: TestScriptName, New: newTestScript},
		{Name: LintScriptName, New: newLintScript},
		{Name: DependencyCountName, New: newDependencyCount},
		{Name: PackageManagerName, New: newPackageManager},
	}
}

// Lookup resolves configured metric names against the catalog, keeping the
// configured order. An empty list selects the whole catalog.
func Lookup(names []string, opts Options) ([]contract.MetricType, error) {
	catalog := Catalog(opts)
	if len(names) == 0 {
		return catalog, nil
	}
	byName := make(map[string]contract.MetricType, len(catalog))
	for _, mt := range catalog {
		byName[mt.Name] = mt
	}
	types := make([]contract.MetricType, 0, len(names))
	for _, name := range names {
		mt, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown metric %q", contract.ErrContractViolation, name)
		}
		types = append(types, mt)
	}
	return types, nil
}

// base holds the evaluation context every built-in metric is bound to.
type base struct {
	ec *contract.EvaluationContext
}

// firstExisting returns the first of names present in the working directory.
func (b base) firstExisting(names ...string) (string, bool) {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(b.ec.Dir(), name)); err == nil {
			return name, true
		}
	}
	return "", false
}

// manifestHas reports whether the manifest declares a top-level key.
func (b base) manifestHas(key string) bool {
	_, ok := b.ec.Manifest().Raw[key]
	return ok
}
