package transform

import (
	"sort"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
)

// StepFactory builds a transform step from plugin options.
type StepFactory func(options map[string]any) (domain.TransformStep, error)

// ResolveFactory builds a resolver from plugin options.
type ResolveFactory func(options map[string]any) (domain.ResolveFunc, error)

// Registry maps plugin names to their factories. Named plugins in a build
// configuration and plugin module files both resolve through it.
type Registry struct {
	steps     map[string]StepFactory
	resolvers map[string]ResolveFactory
}

func NewRegistry() *Registry {
	return &Registry{
		steps:     make(map[string]StepFactory),
		resolvers: make(map[string]ResolveFactory),
	}
}

// DefaultRegistry returns a registry populated with the built-in plugins.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

func (r *Registry) RegisterStep(name string, factory StepFactory) {
	r.steps[name] = factory
}

func (r *Registry) RegisterResolver(name string, factory ResolveFactory) {
	r.resolvers[name] = factory
}

func (r *Registry) Step(name string, options map[string]any) (domain.TransformStep, error) {
	factory, ok := r.steps[name]
	if !ok {
		err := zerr.Wrap(domain.ErrConfiguration, "unknown plugin")
		err = zerr.With(err, "plugin", name)
		return nil, zerr.With(err, "known", r.stepNames())
	}
	step, err := factory(options)
	if err != nil {
		return nil, zerr.With(err, "plugin", name)
	}
	return step, nil
}

func (r *Registry) Resolver(name string, options map[string]any) (domain.ResolveFunc, error) {
	factory, ok := r.resolvers[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "unknown resolver"), "resolver", name)
	}
	fn, err := factory(options)
	if err != nil {
		return nil, zerr.With(err, "resolver", name)
	}
	return fn, nil
}

func (r *Registry) stepNames() []string {
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
