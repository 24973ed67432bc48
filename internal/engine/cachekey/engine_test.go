package cachekey_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/engine/cachekey"
)

type captureDiag struct {
	warnings []string
}

func (d *captureDiag) Warn(msg string) {
	d.warnings = append(d.warnings, msg)
}

type fakeVersioner struct {
	digests map[string]string
}

func (v *fakeVersioner) Digest(dir string) (string, error) {
	if d, ok := v.digests[dir]; ok {
		return d, nil
	}
	return "", fmt.Errorf("no version proxy for %s", dir)
}

func newEngine(t *testing.T) (*cachekey.Engine, *captureDiag) {
	t.Helper()
	diag := &captureDiag{}
	versioner := &fakeVersioner{digests: map[string]string{
		"/opt/plugins/lodash": "v-lodash-1",
	}}
	return cachekey.New(versioner, diag), diag
}

func TestFingerprint_KeyOrderInsensitive(t *testing.T) {
	engine, _ := newEngine(t)

	a := &domain.CanonicalConfig{
		Plugins: []*domain.Plugin{{Kind: domain.PluginByName, Name: "block-scoping"}},
		Extra:   map[string]any{"compact": true, "comments": false, "retain": []any{"a", "b"}},
	}
	b := &domain.CanonicalConfig{
		Plugins: []*domain.Plugin{{Kind: domain.PluginByName, Name: "block-scoping"}},
		Extra:   map[string]any{"retain": []any{"a", "b"}, "comments": false, "compact": true},
	}

	fpA, err := engine.Fingerprint(a)
	require.NoError(t, err)
	fpB, err := engine.Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB)
}

func TestFingerprint_PluginOrderSignificant(t *testing.T) {
	engine, _ := newEngine(t)

	a := &domain.CanonicalConfig{Plugins: []*domain.Plugin{
		{Kind: domain.PluginByName, Name: "block-scoping"},
		{Kind: domain.PluginByName, Name: "strict-mode"},
	}}
	b := &domain.CanonicalConfig{Plugins: []*domain.Plugin{
		{Kind: domain.PluginByName, Name: "strict-mode"},
		{Kind: domain.PluginByName, Name: "block-scoping"},
	}}

	fpA, err := engine.Fingerprint(a)
	require.NoError(t, err)
	fpB, err := engine.Fingerprint(b)
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB)
}

func TestFingerprint_CacheKeyCapabilityIsStable(t *testing.T) {
	mkConfig := func() *domain.CanonicalConfig {
		return &domain.CanonicalConfig{Plugins: []*domain.Plugin{{
			Kind:     domain.PluginInline,
			Name:     "keyed",
			Fn:       func(src []byte) ([]byte, []string, error) { return src, nil, nil },
			CacheKey: func() string { return "keyed-v2" },
		}}}
	}

	engineA, _ := newEngine(t)
	engineB, _ := newEngine(t)

	fpA, err := engineA.Fingerprint(mkConfig())
	require.NoError(t, err)
	fpB, err := engineB.Fingerprint(mkConfig())
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB, "cacheKey-capable plugins must hash identically across instantiations")
}

func TestFingerprint_BaseDirUsesVersionProxy(t *testing.T) {
	mkConfig := func() *domain.CanonicalConfig {
		return &domain.CanonicalConfig{Plugins: []*domain.Plugin{{
			Kind:    domain.PluginInline,
			Name:    "lodash",
			Fn:      func(src []byte) ([]byte, []string, error) { return src, nil, nil },
			BaseDir: func() string { return "/opt/plugins/lodash" },
		}}}
	}

	engineA, _ := newEngine(t)
	engineB, _ := newEngine(t)

	fpA, err := engineA.Fingerprint(mkConfig())
	require.NoError(t, err)
	fpB, err := engineB.Fingerprint(mkConfig())
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB, "identical installed version must hash identically regardless of process identity")
}

func TestFingerprint_UncacheableCallable(t *testing.T) {
	mkConfig := func() *domain.CanonicalConfig {
		return &domain.CanonicalConfig{Plugins: []*domain.Plugin{{
			Kind: domain.PluginInline,
			Name: "opaque",
			Fn:   func(src []byte) ([]byte, []string, error) { return src, nil, nil },
		}}}
	}

	engineA, diagA := newEngine(t)
	engineB, _ := newEngine(t)

	fpA, err := engineA.Fingerprint(mkConfig())
	require.NoError(t, err)
	fpB, err := engineB.Fingerprint(mkConfig())
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB, "uncacheable plugins must force unique-per-instantiation fingerprints")

	// Warned once, naming the plugin, even across repeated fingerprints.
	_, err = engineA.Fingerprint(mkConfig())
	require.NoError(t, err)
	require.Len(t, diagA.warnings, 1)
	assert.Contains(t, diagA.warnings[0], "opaque")
}

func TestFingerprint_AnonymousCallablesWarnedSeparately(t *testing.T) {
	engine, diag := newEngine(t)

	noop := func(src []byte) ([]byte, []string, error) { return src, nil, nil }
	cfg := &domain.CanonicalConfig{Plugins: []*domain.Plugin{
		{Kind: domain.PluginInline, Fn: noop},
		{Kind: domain.PluginInline, Fn: noop},
	}}

	_, err := engine.Fingerprint(cfg)
	require.NoError(t, err)

	// Two distinct uncacheable descriptors, two warnings; repeating the
	// fingerprint adds none.
	require.Len(t, diag.warnings, 2)
	_, err = engine.Fingerprint(cfg)
	require.NoError(t, err)
	assert.Len(t, diag.warnings, 2)
}

func TestFingerprint_NestedCallableInModuleOptions(t *testing.T) {
	mkConfig := func(key string) *domain.CanonicalConfig {
		return &domain.CanonicalConfig{Plugins: []*domain.Plugin{{
			Kind: domain.PluginFromModule,
			Name: "wrapper",
			Path: "/opt/plugins/wrapper/module.yaml",
			Options: map[string]any{
				"inner": &domain.Plugin{
					Kind:     domain.PluginInline,
					Name:     "inner",
					CacheKey: func() string { return key },
				},
			},
		}}}
	}

	engine, _ := newEngine(t)
	fpA, err := engine.Fingerprint(mkConfig("v1"))
	require.NoError(t, err)
	fpB, err := engine.Fingerprint(mkConfig("v2"))
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB, "nested callable cacheKey must participate in the digest")
}

func TestFingerprint_HelperAllowListDistinctFromUnrestricted(t *testing.T) {
	engine, _ := newEngine(t)

	unrestricted := &domain.CanonicalConfig{}
	empty := &domain.CanonicalConfig{Helpers: []string{}}

	fpU, err := engine.Fingerprint(unrestricted)
	require.NoError(t, err)
	fpE, err := engine.Fingerprint(empty)
	require.NoError(t, err)

	assert.NotEqual(t, fpU, fpE)
}

func TestFileKey_DeterministicAndCollisionFree(t *testing.T) {
	const fp = "0011223344556677"

	pairs := []struct {
		path    string
		content string
	}{
		{"a.src", "const y = 1"},
		{"a.src", "const y = 2"},
		{"b.src", "const y = 1"},
		{"nested/a.src", "const y = 1"},
	}

	seen := map[string]string{}
	for _, p := range pairs {
		key := cachekey.FileKey(fp, p.path, []byte(p.content))
		again := cachekey.FileKey(fp, p.path, []byte(p.content))
		assert.Equal(t, key, again, "file key must be deterministic for %s", p.path)

		if prev, dup := seen[key]; dup {
			t.Fatalf("collision between %q and %s/%s", prev, p.path, p.content)
		}
		seen[key] = p.path + "/" + p.content
	}
}

func TestFileKey_FingerprintChangesKey(t *testing.T) {
	a := cachekey.FileKey("fp-one", "a.src", []byte("const y = 1"))
	b := cachekey.FileKey("fp-two", "a.src", []byte("const y = 1"))
	assert.NotEqual(t, a, b)
}
