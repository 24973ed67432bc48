package transform

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"sort"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

var (
	importRE     = regexp.MustCompile(`(?m)^\s*import\s+(?:[^"'\n]*\s+from\s+)?["']([^"']+)["']`)
	importLineRE = regexp.MustCompile(`(?m)^\s*import\s`)
)

var _ ports.Transformer = (*Transformer)(nil)

// Transformer applies the configured plugin chain to a single source file.
// It implements ports.Transformer for both the in-process executor and the
// worker subprocess.
type Transformer struct {
	registry *Registry
}

func New(registry *Registry) *Transformer {
	return &Transformer{registry: registry}
}

func (t *Transformer) Transform(ctx context.Context, src []byte, opts *domain.FileOptions) (*domain.TransformResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	steps, err := t.steps(opts)
	if err != nil {
		return nil, err
	}

	code := src
	helpers := map[string]struct{}{}
	for i, step := range steps {
		out, used, err := step(code)
		if err != nil {
			werr := zerr.With(zerr.Wrap(domain.ErrTransform, err.Error()), "path", opts.Filename)
			return nil, zerr.With(werr, "plugin", pluginIdent(opts, i))
		}
		code = out
		for _, h := range used {
			helpers[h] = struct{}{}
		}
	}

	imports, err := t.scanImports(code, opts)
	if err != nil {
		return nil, err
	}

	if opts.ModuleID != "" {
		code = append([]byte(fmt.Sprintf("// module: %s\n", opts.ModuleID)), code...)
	}

	result := &domain.TransformResult{
		Code:    code,
		Helpers: sortedKeys(helpers),
		Module: &domain.ModuleInfo{
			ID:      moduleID(opts),
			Imports: imports,
		},
	}

	if err := t.applySourceMap(result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// steps materializes the plugin chain. Inline plugins carry their own
// callable; named plugins resolve through the registry; module plugins were
// already instantiated by the loader.
func (t *Transformer) steps(opts *domain.FileOptions) ([]domain.TransformStep, error) {
	steps := make([]domain.TransformStep, 0, len(opts.Plugins))
	for _, p := range opts.Plugins {
		if p.Fn != nil {
			steps = append(steps, p.Fn)
			continue
		}
		if p.Kind != domain.PluginByName {
			err := zerr.With(zerr.Wrap(domain.ErrConfiguration, "plugin has no callable"), "plugin", p.Ident())
			return nil, zerr.With(err, "path", opts.Filename)
		}
		step, err := t.registry.Step(p.Name, p.Options)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (t *Transformer) scanImports(code []byte, opts *domain.FileOptions) ([]string, error) {
	matches := importRE.FindAllSubmatch(code, -1)
	lines := importLineRE.FindAll(code, -1)
	if len(lines) > len(matches) {
		return nil, zerr.With(zerr.Wrap(domain.ErrTransform, "unterminated import"), "path", opts.Filename)
	}

	resolve := t.resolver(opts)
	seen := map[string]struct{}{}
	var imports []string
	for _, m := range matches {
		specifier := string(m[1])
		if resolve != nil {
			resolved, err := resolve(specifier, opts.Filename)
			if err != nil {
				rerr := zerr.With(zerr.Wrap(domain.ErrTransform, err.Error()), "path", opts.Filename)
				return nil, zerr.With(rerr, "specifier", specifier)
			}
			specifier = resolved
		}
		if _, ok := seen[specifier]; ok {
			continue
		}
		seen[specifier] = struct{}{}
		imports = append(imports, specifier)
	}
	return imports, nil
}

func (t *Transformer) resolver(opts *domain.FileOptions) domain.ResolveFunc {
	r := opts.Resolver
	if r == nil {
		return nil
	}
	if r.Resolve != nil {
		return r.Resolve
	}
	if r.Kind == domain.PluginByName {
		fn, err := t.registry.Resolver(r.Name, r.Options)
		if err == nil {
			return fn
		}
	}
	return nil
}

func (t *Transformer) applySourceMap(result *domain.TransformResult, opts *domain.FileOptions) error {
	if opts.SourceMaps == domain.SourceMapsOff {
		return nil
	}

	m, err := json.Marshal(map[string]any{
		"version":  3,
		"file":     path.Base(opts.Filename),
		"sources":  []string{opts.SourceFileName},
		"names":    []string{},
		"mappings": "",
	})
	if err != nil {
		return zerr.Wrap(err, "failed to encode source map")
	}

	switch opts.SourceMaps {
	case domain.SourceMapsInline:
		encoded := base64.StdEncoding.EncodeToString(m)
		result.Code = append(result.Code,
			[]byte("\n//# sourceMappingURL=data:application/json;base64,"+encoded+"\n")...)
	case domain.SourceMapsExternal:
		result.SourceMap = m
		result.Code = append(result.Code,
			[]byte("\n//# sourceMappingURL="+path.Base(opts.SourceMapName)+"\n")...)
	}
	return nil
}

func moduleID(opts *domain.FileOptions) string {
	if opts.ModuleID != "" {
		return opts.ModuleID
	}
	return domain.ModuleIdentity(opts.Filename)
}

func pluginIdent(opts *domain.FileOptions, idx int) string {
	if idx < len(opts.Plugins) {
		return opts.Plugins[idx].Ident()
	}
	return fmt.Sprintf("#%d", idx)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
