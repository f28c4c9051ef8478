package core

import (
	"slices"
	"sync"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// Registry is the catalog of metric descriptors seen so far, keyed by name.
// It only grows. The first registration of a name wins.
type Registry struct {
	mu     sync.RWMutex
	infos  map[string]schema.MetricInfo
	order  []string
	groups []schema.MetricGroup
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{infos: make(map[string]schema.MetricInfo)}
}

// RegisterIfAbsent stores info under its name unless the name is already known.
// It returns true when info was stored.
func (r *Registry) RegisterIfAbsent(info schema.MetricInfo) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.infos[info.Name]; ok {
		return false
	}
	r.infos[info.Name] = info
	r.order = append(r.order, info.Name)
	if !slices.Contains(r.groups, info.Group) {
		r.groups = append(r.groups, info.Group)
	}
	return true
}

// RegisterTypes instantiates every type against an empty context and registers its descriptor.
func (r *Registry) RegisterTypes(types []contract.MetricType) error {
	if err := contract.ValidateMetricTypes(types); err != nil {
		return err
	}
	ec := contract.NewEvaluationContext(schema.Repository{}, "", schema.Manifest{})
	for _, mt := range types {
		r.RegisterIfAbsent(describe(mt.New(ec)))
	}
	return nil
}

// GroupedView returns all descriptors partitioned by group, in registration order within a group.
func (r *Registry) GroupedView() map[schema.MetricGroup][]schema.MetricInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view := make(map[schema.MetricGroup][]schema.MetricInfo, len(r.groups))
	for _, name := range r.order {
		info := r.infos[name]
		view[info.Group] = append(view[info.Group], info)
	}
	return view
}

// Groups returns the group labels in the order they were first seen.
func (r *Registry) Groups() []schema.MetricGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.groups)
}

// Names returns the known metric names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (schema.MetricInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[name]
	return info, ok
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// describe returns the descriptor of m with its result schema attached.
func describe(m contract.Metric) schema.MetricInfo {
	info := m.Info()
	if info.Schema == nil {
		info.Schema = m.Schema()
	}
	return info
}
