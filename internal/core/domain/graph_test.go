package domain_test

import (
	"encoding/json"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refractlabs/refract/internal/core/domain"
)

func TestDepGraph_UpdateReplaces(t *testing.T) {
	g := domain.NewDepGraph()
	g.Update(domain.ModuleInfo{ID: "lib/a", FileKey: "k1", Imports: []string{"lib/b"}})
	g.Update(domain.ModuleInfo{ID: "lib/a", FileKey: "k2", Imports: []string{"lib/c"}})

	require.Equal(t, 1, g.Len())
	info, ok := g.Lookup("lib/a")
	require.True(t, ok)
	assert.Equal(t, "k2", info.FileKey)
	assert.Equal(t, []string{"lib/c"}, info.Imports)
}

func TestDepGraph_PruneRemovesDeadModules(t *testing.T) {
	g := domain.NewDepGraph()
	g.Update(domain.ModuleInfo{ID: "lib/a", FileKey: "k1"})
	g.Update(domain.ModuleInfo{ID: "lib/b", FileKey: "k2"})
	g.Update(domain.ModuleInfo{ID: "lib/c", FileKey: "k3"})

	removed := g.Prune(mapset.NewThreadUnsafeSet("k2"))
	assert.Equal(t, []string{"lib/a", "lib/c"}, removed)
	assert.Equal(t, 1, g.Len())

	_, ok := g.Lookup("lib/b")
	assert.True(t, ok)
}

func TestDepGraph_SerializeIsOrderIndependent(t *testing.T) {
	a := domain.NewDepGraph()
	a.Update(domain.ModuleInfo{ID: "lib/b", FileKey: "k2"})
	a.Update(domain.ModuleInfo{ID: "lib/a", FileKey: "k1", Imports: []string{"lib/b"}})

	b := domain.NewDepGraph()
	b.Update(domain.ModuleInfo{ID: "lib/a", FileKey: "k1", Imports: []string{"lib/b"}})
	b.Update(domain.ModuleInfo{ID: "lib/b", FileKey: "k2"})

	aj, err := a.Serialize()
	require.NoError(t, err)
	bj, err := b.Serialize()
	require.NoError(t, err)
	assert.Equal(t, string(aj), string(bj))

	// The artifact stays valid JSON with one entry per module.
	var decoded map[string]domain.ModuleInfo
	require.NoError(t, json.Unmarshal(aj, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, []string{"lib/b"}, decoded["lib/a"].Imports)
}

func TestModuleIdentity(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"lib/a.src", "lib/a"},
		{"main.src", "main"},
		{"lib\\win\\b.src", "lib/win/b"},
		{"./lib/a.src", "lib/a"},
		{"noext", "noext"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.ModuleIdentity(tc.path), tc.path)
	}
}

func TestUnlistedHelperError_Message(t *testing.T) {
	err := domain.UnlistedHelperError("lib/a.src", []string{"extends", "typeof"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnlistedHelper)
	assert.Contains(t, err.Error(), "lib/a.src")
	assert.Contains(t, err.Error(), "helpers extends, typeof")

	single := domain.UnlistedHelperError("lib/a.src", []string{"typeof"})
	assert.Contains(t, single.Error(), "the helper typeof")
}

func TestOptions_CloneIsDeep(t *testing.T) {
	orig := &domain.Options{
		Plugins: []*domain.Plugin{{
			Kind:    domain.PluginByName,
			Name:    "block-scoping",
			Options: map[string]any{"nested": map[string]any{"k": "v"}},
		}},
		Helpers:    []string{"typeof"},
		Extensions: []string{".src"},
		Extra:      map[string]any{"loose": true},
	}

	cp := orig.Clone()
	orig.Plugins[0].Name = "mutated"
	orig.Plugins[0].Options["nested"].(map[string]any)["k"] = "mutated"
	orig.Helpers[0] = "mutated"
	orig.Extra["loose"] = false

	assert.Equal(t, "block-scoping", cp.Plugins[0].Name)
	assert.Equal(t, "v", cp.Plugins[0].Options["nested"].(map[string]any)["k"])
	assert.Equal(t, []string{"typeof"}, cp.Helpers)
	assert.Equal(t, true, cp.Extra["loose"])
}

func TestFileOptions_Portable(t *testing.T) {
	portable := &domain.FileOptions{
		Plugins: []*domain.Plugin{{Kind: domain.PluginByName, Name: "strict-mode"}},
	}
	assert.True(t, portable.Portable())

	inline := &domain.FileOptions{
		Plugins: []*domain.Plugin{{
			Kind: domain.PluginInline,
			Fn:   func(src []byte) ([]byte, []string, error) { return src, nil, nil },
		}},
	}
	assert.False(t, inline.Portable())
}

func TestPlugin_Portable_NestedCallableInOptions(t *testing.T) {
	step := domain.TransformStep(func(src []byte) ([]byte, []string, error) { return src, nil, nil })

	module := &domain.Plugin{
		Kind: domain.PluginFromModule,
		Name: "wrap",
		Path: "./plugins/wrap",
		Options: map[string]any{
			"level": 2,
			"hooks": []any{map[string]any{"post": step}},
		},
	}
	assert.False(t, module.Portable(), "a callable nested in options cannot cross the worker boundary")

	plain := &domain.Plugin{
		Kind:    domain.PluginFromModule,
		Name:    "wrap",
		Path:    "./plugins/wrap",
		Options: map[string]any{"level": 2, "tags": []any{"a", "b"}},
	}
	assert.True(t, plain.Portable())
}

func TestFileOptions_Portable_ExtraCarriesCallable(t *testing.T) {
	opts := &domain.FileOptions{
		Plugins: []*domain.Plugin{{Kind: domain.PluginByName, Name: "strict-mode"}},
		Extra: map[string]any{
			"onWarn": func(string) {},
		},
	}
	assert.False(t, opts.Portable())
}
