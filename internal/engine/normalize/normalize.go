// Package normalize resolves a user-supplied transform configuration into
// its canonical form: descriptors loaded, filtering options stripped, the
// result safe against later mutation of the caller's values.
package normalize

import (
	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

// Normalizer turns raw options into a canonical configuration.
type Normalizer struct {
	loader ports.PluginLoader
}

// New creates a Normalizer backed by the given plugin loader.
func New(loader ports.PluginLoader) *Normalizer {
	return &Normalizer{loader: loader}
}

// Normalize deep-clones the raw options, resolves every out-of-process
// descriptor into an in-process callable tagged with its base directory, and
// strips options that only affect file selection. The canonical plugin list
// keeps the original order: bare names unchanged, module descriptors
// resolved-but-tagged, inline callables unchanged.
func (n *Normalizer) Normalize(raw *domain.Options) (*domain.CanonicalConfig, error) {
	opts := raw.Clone()

	plugins := make([]*domain.Plugin, 0, len(opts.Plugins))
	for _, p := range opts.Plugins {
		resolved, err := n.resolve(p, false)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, resolved)
	}

	var resolver *domain.Plugin
	if opts.Resolver != nil {
		var err error
		resolver, err = n.resolve(opts.Resolver, true)
		if err != nil {
			return nil, err
		}
	}

	// Extensions select files; they are the filtering layer's concern and
	// are never forwarded to the transformer.
	return &domain.CanonicalConfig{
		Plugins:    plugins,
		Resolver:   resolver,
		ModuleIDs:  opts.ModuleIDs,
		ModuleRoot: opts.ModuleRoot,
		SourceMaps: opts.SourceMaps,
		Helpers:    opts.Helpers,
		Extra:      opts.Extra,
	}, nil
}

func (n *Normalizer) resolve(p *domain.Plugin, isResolver bool) (*domain.Plugin, error) {
	switch p.Kind {
	case domain.PluginByName:
		if p.Name == "" {
			return nil, zerr.Wrap(domain.ErrConfiguration, "plugin descriptor has an empty name")
		}
		return p, nil

	case domain.PluginFromModule:
		if p.Path == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "module plugin descriptor has no path"), "plugin", p.Ident())
		}
		var (
			loaded *domain.Plugin
			err    error
		)
		if isResolver {
			loaded, err = n.loader.LoadResolver(p.Name, p.Path, p.Options)
		} else {
			loaded, err = n.loader.Load(p.Name, p.Path, p.Options)
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to load plugin module"), "path", p.Path)
		}
		return loaded, nil

	case domain.PluginInline:
		if isResolver {
			if p.Resolve == nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "inline resolver descriptor has no callable"), "plugin", p.Ident())
			}
		} else if p.Fn == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "inline plugin descriptor has no callable"), "plugin", p.Ident())
		}
		return p, nil

	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfiguration, "unknown plugin descriptor kind"), "plugin", p.Ident())
	}
}
