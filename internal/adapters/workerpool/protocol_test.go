package workerpool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports/mocks"
)

func TestEncodeOptions_RejectsInlinePlugins(t *testing.T) {
	opts := &domain.FileOptions{
		Filename: "a.src",
		Plugins: []*domain.Plugin{{
			Kind: domain.PluginInline,
			Fn:   func([]byte) ([]byte, []string, error) { return nil, nil, nil },
		}},
	}

	_, err := encodeOptions(opts)
	require.Error(t, err)
}

func TestEncodeOptions_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockPluginLoader(ctrl)

	loaded := &domain.Plugin{Kind: domain.PluginFromModule, Name: "shim", Path: "plugins/shim.yaml"}
	loader.EXPECT().
		Load("shim", "plugins/shim.yaml", map[string]any{"mode": "loose"}).
		Return(loaded, nil)

	opts := &domain.FileOptions{
		Filename:      "lib/a.src",
		SourceMapName: "lib/a.src.map",
		ModuleID:      "app/lib/a",
		SourceMaps:    domain.SourceMapsExternal,
		Plugins: []*domain.Plugin{
			{Kind: domain.PluginByName, Name: "strict-mode"},
			{Kind: domain.PluginFromModule, Name: "shim", Path: "plugins/shim.yaml", Options: map[string]any{"mode": "loose"}},
		},
	}

	wire, err := encodeOptions(opts)
	require.NoError(t, err)

	got, err := wire.decode(loader)
	require.NoError(t, err)
	assert.Equal(t, opts.Filename, got.Filename)
	assert.Equal(t, opts.ModuleID, got.ModuleID)
	assert.Equal(t, opts.SourceMaps, got.SourceMaps)
	require.Len(t, got.Plugins, 2)
	assert.Equal(t, "strict-mode", got.Plugins[0].Name)
	assert.Same(t, loaded, got.Plugins[1])
}

func TestServe_AnswersRequestsUntilEOF(t *testing.T) {
	ctrl := gomock.NewController(t)
	transformer := mocks.NewMockTransformer(ctrl)
	loader := mocks.NewMockPluginLoader(ctrl)

	transformer.EXPECT().
		Transform(gomock.Any(), []byte("const y = 1"), gomock.Any()).
		Return(&domain.TransformResult{
			Code:    []byte("var y = 1"),
			Helpers: []string{"typeof"},
			Module:  &domain.ModuleInfo{ID: "a", Imports: []string{"b"}},
		}, nil)

	var in bytes.Buffer
	require.NoError(t, json.NewEncoder(&in).Encode(jobRequest{
		Path:    "a.src",
		Source:  []byte("const y = 1"),
		Options: wireOptions{Filename: "a.src"},
	}))

	var out bytes.Buffer
	require.NoError(t, Serve(context.Background(), &in, &out, transformer, loader))

	var resp jobResponse
	require.NoError(t, json.NewDecoder(&out).Decode(&resp))
	assert.Empty(t, resp.TransformError)
	assert.Equal(t, "var y = 1", string(resp.Code))
	assert.Equal(t, []string{"typeof"}, resp.Helpers)
	require.NotNil(t, resp.Module)
	assert.Equal(t, []string{"b"}, resp.Module.Imports)
}

func TestServe_ReportsTransformErrorsInBand(t *testing.T) {
	ctrl := gomock.NewController(t)
	transformer := mocks.NewMockTransformer(ctrl)
	loader := mocks.NewMockPluginLoader(ctrl)

	transformer.EXPECT().
		Transform(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("unterminated import"))

	var in bytes.Buffer
	require.NoError(t, json.NewEncoder(&in).Encode(jobRequest{
		Path:    "a.src",
		Source:  []byte("import \"b"),
		Options: wireOptions{Filename: "a.src"},
	}))

	var out bytes.Buffer
	require.NoError(t, Serve(context.Background(), &in, &out, transformer, loader))

	var resp jobResponse
	require.NoError(t, json.NewDecoder(&out).Decode(&resp))
	assert.Contains(t, resp.TransformError, "unterminated import")
	assert.Nil(t, resp.Code)
}

func TestIsMarshalError_SeparatesLocalFailuresFromBrokenPipes(t *testing.T) {
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(map[string]any{"cb": func() {}})
	require.Error(t, err)
	assert.True(t, isMarshalError(err), "an unserializable value is a local failure, not a dead worker")

	err = json.NewEncoder(errWriter{}).Encode(map[string]any{"ok": true})
	require.Error(t, err)
	assert.False(t, isMarshalError(err))
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
