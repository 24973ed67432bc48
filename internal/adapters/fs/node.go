package fs

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/internal/core/ports"
)

const (
	WalkerNodeID    graft.ID = "adapter.fs.walker"
	VersionerNodeID graft.ID = "adapter.fs.versioner"
	WriterNodeID    graft.ID = "adapter.fs.writer"
)

func init() {
	graft.Register(graft.Node[ports.TreeWalker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.TreeWalker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.DirVersioner]{
		ID:        VersionerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.DirVersioner, error) {
			return NewDirHasher(NewWalker()), nil
		},
	})

	graft.Register(graft.Node[ports.OutputWriter]{
		ID:        WriterNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.OutputWriter, error) {
			return NewWriter(), nil
		},
	})
}
