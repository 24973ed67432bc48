package pipeline

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/internal/adapters/cache"              //nolint:depguard // Wired in engine wiring
	"github.com/refractlabs/refract/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"github.com/refractlabs/refract/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"github.com/refractlabs/refract/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"github.com/refractlabs/refract/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"github.com/refractlabs/refract/internal/adapters/transform"          //nolint:depguard // Wired in engine wiring
	"github.com/refractlabs/refract/internal/adapters/workerpool"         //nolint:depguard // Wired in engine wiring
	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
	"github.com/refractlabs/refract/internal/engine/cachekey"
	"github.com/refractlabs/refract/internal/engine/normalize"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			transform.LoaderNodeID,
			fs.VersionerNodeID,
			cache.NodeID,
			workerpool.NodeID,
			workerpool.InlineNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			cfg, err := graft.Dep[*domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.PluginLoader](ctx)
			if err != nil {
				return nil, err
			}

			versioner, err := graft.Dep[ports.DirVersioner](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.TransformCache](ctx)
			if err != nil {
				return nil, err
			}

			pool, err := graft.Dep[*workerpool.Pool](ctx)
			if err != nil {
				return nil, err
			}

			inline, err := graft.Dep[*workerpool.Inline](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			deps := Deps{
				Normalizer: normalize.New(loader),
				Keys:       cachekey.New(versioner, log),
				Cache:      store,
				Workers:    pool,
				Inline:     inline,
				Graph:      domain.NewDepGraph(),
				Logger:     log,
				Telemetry:  tel,
			}
			return New(deps, cfg.Jobs), nil
		},
	})
}
