package transform

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/internal/core/ports"
)

const (
	NodeID       graft.ID = "adapter.transformer"
	LoaderNodeID graft.ID = "adapter.plugin_loader"
)

func init() {
	graft.Register(graft.Node[ports.Transformer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Transformer, error) {
			return New(DefaultRegistry()), nil
		},
	})

	graft.Register(graft.Node[ports.PluginLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.PluginLoader, error) {
			return NewLoader(DefaultRegistry()), nil
		},
	})
}
