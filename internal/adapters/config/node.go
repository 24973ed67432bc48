package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

const (
	LoaderNodeID graft.ID = "adapter.config_loader"
	NodeID       graft.ID = "build_config"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			return NewFileLoader(), nil
		},
	})

	graft.Register(graft.Node[*domain.BuildConfig]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LoaderNodeID},
		Run: func(ctx context.Context) (*domain.BuildConfig, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return loader.Load(cwd)
		},
	})
}
