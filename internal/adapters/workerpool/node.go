package workerpool

import (
	"context"
	"runtime"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/internal/adapters/config"
	"github.com/refractlabs/refract/internal/adapters/logger"
	"github.com/refractlabs/refract/internal/adapters/transform"
	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

const (
	NodeID       graft.ID = "adapter.worker_pool"
	InlineNodeID graft.ID = "adapter.inline_executor"
)

func init() {
	graft.Register(graft.Node[*Pool]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Pool, error) {
			cfg, err := graft.Dep[*domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			factory, err := NewProcFactory(log)
			if err != nil {
				return nil, err
			}

			size := cfg.Jobs
			if size <= 0 {
				size = runtime.NumCPU()
			}
			return NewPool(factory, size, log), nil
		},
	})

	graft.Register(graft.Node[*Inline]{
		ID:        InlineNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{transform.NodeID},
		Run: func(ctx context.Context) (*Inline, error) {
			tf, err := graft.Dep[ports.Transformer](ctx)
			if err != nil {
				return nil, err
			}
			return NewInline(tf), nil
		},
	})
}
