package ports

import (
	"context"

	"github.com/refractlabs/refract/internal/core/domain"
)

// JobExecutor runs one transform job to completion. The worker pool and the
// inline executor both implement it; the pipeline picks per job based on
// whether the job's configuration is portable.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type JobExecutor interface {
	Execute(ctx context.Context, job *domain.Job) (*domain.TransformResult, error)
}

// Worker is one out-of-process execution unit with at most one in-flight
// job. Run returns an error wrapping domain.ErrWorkerCrashed when the
// process died mid-job, which is distinct from a transform error reported by
// the transformer itself.
type Worker interface {
	Run(ctx context.Context, job *domain.Job) (*domain.TransformResult, error)
	Close() error
}

// WorkerFactory spawns fresh workers, both for initial pool fill and for
// replacing dead ones. The context bounds the worker's lifetime, not the
// job that triggered the spawn; cancelling it tears the worker down.
type WorkerFactory interface {
	Spawn(ctx context.Context) (Worker, error)
}
