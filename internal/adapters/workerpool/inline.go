package workerpool

import (
	"context"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
	"github.com/refractlabs/refract/internal/core/ports"
)

var _ ports.JobExecutor = (*Inline)(nil)

// Inline executes jobs in the controlling process. It serves jobs whose
// configuration carries an in-process callable, since a closure cannot be
// transferred across a process boundary.
type Inline struct {
	transformer ports.Transformer
}

// NewInline creates an inline executor over the given transformer.
func NewInline(transformer ports.Transformer) *Inline {
	return &Inline{transformer: transformer}
}

// Execute transforms the job synchronously.
func (e *Inline) Execute(ctx context.Context, job *domain.Job) (*domain.TransformResult, error) {
	res, err := e.transformer.Transform(ctx, job.Source, job.Options)
	if err != nil {
		return nil, zerr.With(err, "path", job.Path)
	}
	return res, nil
}
