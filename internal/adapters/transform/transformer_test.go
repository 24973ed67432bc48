package transform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refractlabs/refract/internal/adapters/transform"
	"github.com/refractlabs/refract/internal/core/domain"
)

func run(t *testing.T, src string, opts *domain.FileOptions) *domain.TransformResult {
	t.Helper()
	res, err := transform.New(transform.DefaultRegistry()).Transform(context.Background(), []byte(src), opts)
	require.NoError(t, err)
	return res
}

func TestTransform_BlockScoping(t *testing.T) {
	res := run(t, "const y = 1;\nlet z = 2;\n", &domain.FileOptions{
		Filename: "a.src",
		Plugins:  []*domain.Plugin{{Kind: domain.PluginByName, Name: "block-scoping"}},
	})
	assert.Equal(t, "var y = 1;\nvar z = 2;\n", string(res.Code))
	assert.Empty(t, res.Helpers)
}

func TestTransform_StrictModeIsIdempotent(t *testing.T) {
	opts := &domain.FileOptions{
		Filename: "a.src",
		Plugins:  []*domain.Plugin{{Kind: domain.PluginByName, Name: "strict-mode"}},
	}
	once := run(t, "var y = 1;\n", opts)
	assert.Equal(t, "\"use strict\";\nvar y = 1;\n", string(once.Code))

	twice := run(t, string(once.Code), opts)
	assert.Equal(t, string(once.Code), string(twice.Code))
}

func TestTransform_TypeofHelper(t *testing.T) {
	res := run(t, "if (typeof sym === \"symbol\") {}\n", &domain.FileOptions{
		Filename: "a.src",
		Plugins:  []*domain.Plugin{{Kind: domain.PluginByName, Name: "typeof-symbol"}},
	})
	assert.Equal(t, "if (_typeof(sym) === \"symbol\") {}\n", string(res.Code))
	assert.Equal(t, []string{"typeof"}, res.Helpers)
}

func TestTransform_PluginsRunInOrder(t *testing.T) {
	seq := ""
	mk := func(tag string) *domain.Plugin {
		return &domain.Plugin{
			Kind: domain.PluginInline,
			Fn: func(src []byte) ([]byte, []string, error) {
				seq += tag
				return src, nil, nil
			},
		}
	}
	run(t, "x\n", &domain.FileOptions{
		Filename: "a.src",
		Plugins:  []*domain.Plugin{mk("a"), mk("b"), mk("c")},
	})
	assert.Equal(t, "abc", seq)
}

func TestTransform_CollectsImports(t *testing.T) {
	src := "import { a } from \"./util\";\nimport \"side-effect\";\nimport { b } from \"./util\";\n"
	res := run(t, src, &domain.FileOptions{Filename: "lib/a.src"})
	assert.Equal(t, []string{"./util", "side-effect"}, res.Module.Imports)
	assert.Equal(t, "lib/a", res.Module.ID)
}

func TestTransform_UnterminatedImport(t *testing.T) {
	_, err := transform.New(transform.DefaultRegistry()).
		Transform(context.Background(), []byte("import \"broken\n"), &domain.FileOptions{Filename: "a.src"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransform))
}

func TestTransform_StepErrorReportsTransformFailure(t *testing.T) {
	boom := &domain.Plugin{
		Kind: domain.PluginInline,
		Name: "boom",
		Fn:   func([]byte) ([]byte, []string, error) { return nil, nil, errors.New("bad input") },
	}
	_, err := transform.New(transform.DefaultRegistry()).
		Transform(context.Background(), []byte("const y = 1;\n"), &domain.FileOptions{
			Filename: "a.src",
			Plugins:  []*domain.Plugin{boom},
		})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransform))
	assert.Contains(t, err.Error(), "bad input")
}

func TestTransform_PluginWithoutCallableFails(t *testing.T) {
	_, err := transform.New(transform.DefaultRegistry()).
		Transform(context.Background(), []byte("const y = 1;\n"), &domain.FileOptions{
			Filename: "a.src",
			Plugins:  []*domain.Plugin{{Kind: domain.PluginFromModule, Name: "wrap", Path: "./wrap"}},
		})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestTransform_ResolverErrorReportsTransformFailure(t *testing.T) {
	src := "import { a } from \"@app/util\";\n"
	_, err := transform.New(transform.DefaultRegistry()).
		Transform(context.Background(), []byte(src), &domain.FileOptions{
			Filename: "a.src",
			Resolver: &domain.Plugin{
				Kind:    domain.PluginInline,
				Name:    "deny",
				Resolve: func(specifier, _ string) (string, error) { return "", errors.New("unresolvable " + specifier) },
			},
		})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransform))
	assert.Contains(t, err.Error(), "unresolvable @app/util")
}

func TestTransform_PrefixMapResolver(t *testing.T) {
	src := "import { a } from \"@app/util\";\nimport { b } from \"./sibling\";\n"
	res := run(t, src, &domain.FileOptions{
		Filename: "lib/a.src",
		Resolver: &domain.Plugin{
			Kind:    domain.PluginByName,
			Name:    "prefix-map",
			Options: map[string]any{"prefixes": map[string]any{"@app/": "src/"}},
		},
	})
	assert.Equal(t, []string{"src/util", "lib/sibling"}, res.Module.Imports)
}

func TestTransform_ModuleIDComment(t *testing.T) {
	res := run(t, "var y = 1;\n", &domain.FileOptions{Filename: "lib/a.src", ModuleID: "app/lib/a"})
	assert.Equal(t, "// module: app/lib/a\nvar y = 1;\n", string(res.Code))
	assert.Equal(t, "app/lib/a", res.Module.ID)
}

func TestTransform_ExternalSourceMap(t *testing.T) {
	res := run(t, "var y = 1;\n", &domain.FileOptions{
		Filename:       "a.src",
		SourceFileName: "a.src",
		SourceMapName:  "a.src.map",
		SourceMaps:     domain.SourceMapsExternal,
	})
	assert.Contains(t, string(res.Code), "//# sourceMappingURL=a.src.map")
	require.NotNil(t, res.SourceMap)
	assert.Contains(t, string(res.SourceMap), `"version":3`)
}

func TestTransform_InlineSourceMap(t *testing.T) {
	res := run(t, "var y = 1;\n", &domain.FileOptions{
		Filename:       "a.src",
		SourceFileName: "a.src",
		SourceMapName:  "a.src.map",
		SourceMaps:     domain.SourceMapsInline,
	})
	assert.Contains(t, string(res.Code), "sourceMappingURL=data:application/json;base64,")
	assert.Nil(t, res.SourceMap)
}

func TestLoader_PluginModuleFile(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "strictish.yaml")
	require.NoError(t, os.WriteFile(modPath, []byte("plugin: strict-mode\n"), 0o644))

	loader := transform.NewLoader(transform.DefaultRegistry())
	p, err := loader.Load("strictish", modPath, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PluginFromModule, p.Kind)
	assert.Equal(t, dir, p.BaseDir())

	out, _, err := p.Fn([]byte("var y = 1;\n"))
	require.NoError(t, err)
	assert.Equal(t, "\"use strict\";\nvar y = 1;\n", string(out))
}

func TestLoader_ResolverModuleWithOptionOverlay(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "paths.yaml")
	require.NoError(t, os.WriteFile(modPath, []byte(
		"plugin: prefix-map\noptions:\n  prefixes:\n    \"@app/\": src/\n"), 0o644))

	loader := transform.NewLoader(transform.DefaultRegistry())
	p, err := loader.LoadResolver("paths", modPath, nil)
	require.NoError(t, err)
	require.NotNil(t, p.Resolve)

	got, err := p.Resolve("@app/util", "lib/a.src")
	require.NoError(t, err)
	assert.Equal(t, "src/util", got)
}

func TestLoader_UnknownPluginFails(t *testing.T) {
	loader := transform.NewLoader(transform.DefaultRegistry())
	_, err := loader.Load("nope", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
