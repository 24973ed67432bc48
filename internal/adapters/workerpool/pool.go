// Package workerpool implements transform job execution: a fixed-size pool
// of out-of-process workers with one-shot crash recovery, plus the inline
// fallback for jobs whose configuration cannot cross a process boundary.
package workerpool

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

var _ ports.JobExecutor = (*Pool)(nil)

// Pool dispatches jobs to a bounded set of workers. Workers are spawned
// lazily, one per slot; a worker that crashes mid-job is replaced by a fresh
// one and the job is resubmitted exactly once. Retry of one job never blocks
// jobs running on other workers.
type Pool struct {
	factory ports.WorkerFactory
	log     ports.Logger
	slots   chan *slot
	size    int

	// Workers outlive individual jobs and passes, so they are spawned under
	// the pool's own context rather than the caller's. Close cancels it.
	lifetime context.Context
	stop     context.CancelFunc
}

// A slot owns at most one live worker. States map onto the worker
// lifecycle: empty slot = no worker yet (or the previous one died), held
// worker = idle, checked-out slot = busy.
type slot struct {
	w ports.Worker
}

// NewPool creates a pool with the given number of worker slots.
func NewPool(factory ports.WorkerFactory, size int, log ports.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	lifetime, stop := context.WithCancel(context.Background())
	p := &Pool{
		factory:  factory,
		log:      log,
		slots:    make(chan *slot, size),
		size:     size,
		lifetime: lifetime,
		stop:     stop,
	}
	for range size {
		p.slots <- &slot{}
	}
	return p
}

// Execute runs one job on an idle worker, queueing until a slot frees up.
// An abnormal worker death is retried once on a fresh worker; a second death
// for the same job is terminal. A transform error reported by the
// transformer is returned as-is, without retry.
func (p *Pool) Execute(ctx context.Context, job *domain.Job) (*domain.TransformResult, error) {
	var s *slot
	select {
	case s = <-p.slots:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { p.slots <- s }()

	for attempt := 0; ; attempt++ {
		if s.w == nil {
			w, err := p.factory.Spawn(p.lifetime)
			if err != nil {
				return nil, zerr.Wrap(err, "failed to spawn worker")
			}
			s.w = w
		}

		res, err := s.w.Run(ctx, job)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrWorkerCrashed) {
			return nil, err
		}

		// The worker died mid-job. Replace it before any further dispatch.
		_ = s.w.Close()
		s.w = nil

		if attempt >= 1 {
			return nil, zerr.With(
				zerr.Wrap(domain.ErrWorkerTerminated, "worker crashed twice while transforming the same file"),
				"path", job.Path,
			)
		}
		p.log.Warn(fmt.Sprintf("worker crashed while transforming %s; resubmitting to a fresh worker", job.Path))
	}
}

// Close shuts down every live worker.
func (p *Pool) Close() error {
	defer p.stop()
	var errs error
	for range p.size {
		s := <-p.slots
		if s.w != nil {
			errs = errors.Join(errs, s.w.Close())
			s.w = nil
		}
	}
	return errs
}
