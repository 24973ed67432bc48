package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refractlabs/refract/cmd/refract/commands"
	"github.com/refractlabs/refract/internal/adapters/cache"
	"github.com/refractlabs/refract/internal/adapters/fs"
	"github.com/refractlabs/refract/internal/adapters/telemetry"
	"github.com/refractlabs/refract/internal/adapters/transform"
	"github.com/refractlabs/refract/internal/adapters/workerpool"
	"github.com/refractlabs/refract/internal/app"
	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/engine/cachekey"
	"github.com/refractlabs/refract/internal/engine/normalize"
	"github.com/refractlabs/refract/internal/engine/pipeline"
)

type silentLogger struct{}

func (silentLogger) Info(string) {}
func (silentLogger) Warn(string) {}
func (silentLogger) Error(error) {}

func newCLI(t *testing.T, cacheDir string) *commands.CLI {
	t.Helper()

	registry := transform.DefaultRegistry()
	loader := transform.NewLoader(registry)
	inline := workerpool.NewInline(transform.New(registry))

	store, err := cache.NewStore(cacheDir)
	require.NoError(t, err)

	walker := fs.NewWalker()
	log := silentLogger{}
	deps := pipeline.Deps{
		Normalizer: normalize.New(loader),
		Keys:       cachekey.New(fs.NewDirHasher(walker), log),
		Cache:      store,
		Workers:    inline,
		Inline:     inline,
		Graph:      domain.NewDepGraph(),
		Logger:     log,
		Telemetry:  telemetry.NewNoOp(),
	}
	cfg := &domain.BuildConfig{
		Options: domain.Options{
			Plugins:    []*domain.Plugin{{Kind: domain.PluginByName, Name: "block-scoping"}},
			Extensions: []string{".src"},
		},
		CacheDir: cacheDir,
	}
	a := app.New(cfg, pipeline.New(deps, 2), walker, fs.NewWriter(), log)
	return commands.New(a)
}

func TestBuild_TransformsTree(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "main.src"), []byte("const y = 1;\n"), 0o644))

	cli := newCLI(t, filepath.Join(t.TempDir(), "cache"))
	cli.SetArgs([]string{"build", srcDir, outDir})
	require.NoError(t, cli.Execute(context.Background()))

	code, err := os.ReadFile(filepath.Join(outDir, "main.src"))
	require.NoError(t, err)
	assert.Equal(t, "var y = 1;\n", string(code))
}

func TestBuild_EmptyTreeFails(t *testing.T) {
	cli := newCLI(t, filepath.Join(t.TempDir(), "cache"))
	cli.SetArgs([]string{"build", t.TempDir(), t.TempDir()})
	require.Error(t, cli.Execute(context.Background()))
}

func TestClean_RemovesCache(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "main.src"), []byte("const y = 1;\n"), 0o644))

	cli := newCLI(t, cacheDir)
	cli.SetArgs([]string{"build", srcDir, t.TempDir()})
	require.NoError(t, cli.Execute(context.Background()))
	_, err := os.Stat(cacheDir)
	require.NoError(t, err)

	cli.SetArgs([]string{"clean"})
	require.NoError(t, cli.Execute(context.Background()))
	_, err = os.Stat(cacheDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRoot_Help(t *testing.T) {
	cli := newCLI(t, filepath.Join(t.TempDir(), "cache"))
	cli.SetArgs([]string{"--help"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestVersion(t *testing.T) {
	cli := newCLI(t, filepath.Join(t.TempDir(), "cache"))
	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
}
