package transform

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/refractlabs/refract/internal/core/domain"
)

// Loader materializes plugin descriptors. A bare name binds against the
// registry; a path points at a plugin module file, a YAML document naming a
// registered plugin plus its baked-in options.
type Loader struct {
	registry *Registry
}

func NewLoader(registry *Registry) *Loader {
	return &Loader{registry: registry}
}

type pluginModule struct {
	Plugin  string         `yaml:"plugin"`
	Options map[string]any `yaml:"options"`
}

func (l *Loader) Load(name, path string, options map[string]any) (*domain.Plugin, error) {
	if path == "" {
		step, err := l.registry.Step(name, options)
		if err != nil {
			return nil, err
		}
		return &domain.Plugin{Kind: domain.PluginByName, Name: name, Options: options, Fn: step}, nil
	}

	mod, merged, err := l.readModule(path, options)
	if err != nil {
		return nil, err
	}
	step, err := l.registry.Step(mod.Plugin, merged)
	if err != nil {
		return nil, zerr.With(err, "module", path)
	}

	dir := filepath.Dir(path)
	return &domain.Plugin{
		Kind:    domain.PluginFromModule,
		Name:    name,
		Path:    path,
		Options: options,
		Fn:      step,
		BaseDir: func() string { return dir },
	}, nil
}

func (l *Loader) LoadResolver(name, path string, options map[string]any) (*domain.Plugin, error) {
	if path == "" {
		fn, err := l.registry.Resolver(name, options)
		if err != nil {
			return nil, err
		}
		return &domain.Plugin{Kind: domain.PluginByName, Name: name, Options: options, Resolve: fn}, nil
	}

	mod, merged, err := l.readModule(path, options)
	if err != nil {
		return nil, err
	}
	fn, err := l.registry.Resolver(mod.Plugin, merged)
	if err != nil {
		return nil, zerr.With(err, "module", path)
	}

	dir := filepath.Dir(path)
	return &domain.Plugin{
		Kind:    domain.PluginFromModule,
		Name:    name,
		Path:    path,
		Options: options,
		Resolve: fn,
		BaseDir: func() string { return dir },
	}, nil
}

// readModule parses a plugin module file and overlays the caller's options
// on top of the options baked into the file.
func (l *Loader) readModule(path string, options map[string]any) (*pluginModule, map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "failed to read plugin module"), "module", path)
	}

	var mod pluginModule
	if err := yaml.Unmarshal(raw, &mod); err != nil {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "malformed plugin module"), "module", path)
	}
	if mod.Plugin == "" {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "plugin module names no plugin"), "module", path)
	}

	merged := make(map[string]any, len(mod.Options)+len(options))
	for k, v := range mod.Options {
		merged[k] = v
	}
	for k, v := range options {
		merged[k] = v
	}
	return &mod, merged, nil
}
