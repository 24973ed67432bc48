package cache

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/internal/adapters/config"
	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

const NodeID graft.ID = "adapter.transform_cache"

func init() {
	graft.Register(graft.Node[ports.TransformCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.TransformCache, error) {
			cfg, err := graft.Dep[*domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.CacheDir)
		},
	})
}
