package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"github.com/refractlabs/refract/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"github.com/refractlabs/refract/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"github.com/refractlabs/refract/internal/adapters/workerpool" //nolint:depguard // Wired in app layer
	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
	"github.com/refractlabs/refract/internal/engine/pipeline"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles everything the CLI needs after wiring, including the
// resources it must close on exit.
type Components struct {
	App    *App
	Logger ports.Logger
	Pool   *workerpool.Pool
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pipeline.NodeID,
			fs.WalkerNodeID,
			fs.WriterNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			cfg, err := graft.Dep[*domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}

			p, err := graft.Dep[*pipeline.Pipeline](ctx)
			if err != nil {
				return nil, err
			}

			walker, err := graft.Dep[ports.TreeWalker](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.OutputWriter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg, p, walker, writer, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			workerpool.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			pool, err := graft.Dep[*workerpool.Pool](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log, Pool: pool}, nil
		},
	})
}
