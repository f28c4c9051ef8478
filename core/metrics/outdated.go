package metrics

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/git-pkgs/registries"
	_ "github.com/git-pkgs/registries/all"
	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
	"golang.org/x/sync/errgroup"
)

// OutdatedDependenciesName compares pinned dependencies with the registry.
const OutdatedDependenciesName = "outdated_dependencies"

// defaultLookupWorkers bounds registry lookups when Options leaves it unset.
const defaultLookupWorkers = 8

// LatestVersionFunc returns the latest published version of a package.
// An empty version with a nil error means the package has no usable release.
type LatestVersionFunc func(ctx context.Context, name string) (string, error)

// pinnedVersion matches exact versions like 1.2.3, =1.2.3 or v1.2.3.
// Ranges such as ^1.2.3 already admit newer releases and are not checked.
var pinnedVersion = regexp.MustCompile(`^[=v]?(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)$`)

var npmRegistry = sync.OnceValues(func() (registries.Registry, error) {
	return registries.New("npm", "", registries.DefaultClient())
})

// NPMLatest resolves latest versions from the public npm registry.
func NPMLatest(ctx context.Context, name string) (string, error) {
	reg, err := npmRegistry()
	if err != nil {
		return "", err
	}
	v, err := registries.FetchLatestVersion(ctx, reg, name)
	if errors.Is(err, registries.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return v.Number, nil
}

type outdatedDependencies struct {
	base
	opts Options
}

func newOutdatedDependencies(opts Options) func(*contract.EvaluationContext) contract.Metric {
	if opts.Latest == nil {
		opts.Latest = NPMLatest
	}
	if opts.LookupWorkers <= 0 {
		opts.LookupWorkers = defaultLookupWorkers
	}
	return func(ec *contract.EvaluationContext) contract.Metric {
		return &outdatedDependencies{base: base{ec}, opts: opts}
	}
}

func (m *outdatedDependencies) Info() schema.MetricInfo {
	return schema.MetricInfo{
		Name:        OutdatedDependenciesName,
		Group:       schema.VersionsGroup,
		Description: "Pinned dependencies behind the latest registry release",
	}
}

func (m *outdatedDependencies) Verify(context.Context) (bool, error) {
	return m.opts.RegistryLookups && len(m.ec.Dependencies()) > 0, nil
}

func (m *outdatedDependencies) Execute(ctx context.Context) (any, error) {
	deps := m.ec.Dependencies()
	names := make([]string, 0, len(deps))
	for name, declared := range deps {
		if pinnedVersion.MatchString(strings.TrimSpace(declared)) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var (
		mu       sync.Mutex
		outdated []string
		failed   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.LookupWorkers)
	for _, name := range names {
		g.Go(func() error {
			latest, err := m.opts.Latest(gctx, name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				contract.LogWarn(fmt.Sprintf("registry lookup for %s", name), err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			declared := pinnedVersion.FindStringSubmatch(strings.TrimSpace(deps[name]))[1]
			if latest != "" && latest != declared {
				mu.Lock()
				outdated = append(outdated, fmt.Sprintf("%s %s -> %s", name, declared, latest))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(outdated)
	if outdated == nil {
		outdated = []string{}
	}
	return map[string]any{
		"checked":  len(names),
		"outdated": len(outdated),
		"failed":   failed,
		"packages": outdated,
	}, nil
}

func (m *outdatedDependencies) Schema() schema.ResultSchema {
	return schema.ResultSchema{
		"checked":  "int (pinned dependencies looked up)",
		"outdated": "int",
		"failed":   "int (lookups that errored)",
		"packages": "[]string (name declared -> latest)",
	}
}
