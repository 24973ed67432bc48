package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/refractlabs/refract/internal/core/domain"
)

// refractFile represents the structure of the refract.yaml configuration
// file.
type refractFile struct {
	Plugins    []pluginDTO    `yaml:"plugins"`
	Resolver   *pluginDTO     `yaml:"resolver"`
	ModuleIDs  yaml.Node      `yaml:"moduleIds"`
	ModuleRoot string         `yaml:"moduleRoot"`
	SourceMaps string         `yaml:"sourceMaps"`
	Helpers    *[]string      `yaml:"helpers"`
	Extensions []string       `yaml:"extensions"`
	Extra      map[string]any `yaml:"extra"`
	CacheDir   string         `yaml:"cacheDir"`
	Jobs       int            `yaml:"jobs"`
}

// pluginDTO accepts either a bare plugin name or a mapping with a name or
// path plus options.
type pluginDTO struct {
	Name    string
	Path    string
	Options map[string]any
}

func (p *pluginDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.Name)
	}

	var m struct {
		Name    string         `yaml:"name"`
		Path    string         `yaml:"path"`
		Options map[string]any `yaml:"options"`
	}
	if err := node.Decode(&m); err != nil {
		return zerr.Wrap(err, "malformed plugin entry")
	}
	p.Name = m.Name
	p.Path = m.Path
	p.Options = m.Options
	return nil
}

func (p *pluginDTO) toDomain() (*domain.Plugin, error) {
	switch {
	case p.Path != "":
		name := p.Name
		if name == "" {
			name = p.Path
		}
		return &domain.Plugin{
			Kind:    domain.PluginFromModule,
			Name:    name,
			Path:    p.Path,
			Options: p.Options,
		}, nil
	case p.Name != "":
		return &domain.Plugin{
			Kind:    domain.PluginByName,
			Name:    p.Name,
			Options: p.Options,
		}, nil
	default:
		return nil, zerr.Wrap(domain.ErrConfiguration, "plugin entry names neither a plugin nor a module path")
	}
}

// decodeModuleIDs accepts false, true, or a module-root string.
func decodeModuleIDs(node yaml.Node) (domain.ModuleIDMode, string, error) {
	if node.IsZero() {
		return domain.ModuleIDsOff, "", nil
	}

	var b bool
	if err := node.Decode(&b); err == nil {
		if b {
			return domain.ModuleIDsAuto, "", nil
		}
		return domain.ModuleIDsOff, "", nil
	}

	var root string
	if err := node.Decode(&root); err == nil {
		return domain.ModuleIDsNamed, root, nil
	}
	return domain.ModuleIDsOff, "", zerr.Wrap(domain.ErrConfiguration, "moduleIds must be a boolean or a module root string")
}

func decodeSourceMaps(value string) (domain.SourceMapMode, error) {
	switch value {
	case "", "off":
		return domain.SourceMapsOff, nil
	case "inline":
		return domain.SourceMapsInline, nil
	case "external":
		return domain.SourceMapsExternal, nil
	default:
		return domain.SourceMapsOff, zerr.With(
			zerr.Wrap(domain.ErrConfiguration, "sourceMaps must be off, inline, or external"), "value", value)
	}
}
