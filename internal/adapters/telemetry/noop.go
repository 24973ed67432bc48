// Package telemetry provides the no-op telemetry adapter. The progrock
// subpackage carries the recording implementation.
package telemetry

import (
	"context"

	"github.com/refractlabs/refract/internal/core/ports"
)

// NoOp discards all recordings. The worker subprocess and most tests use it.
type NoOp struct{}

func NewNoOp() *NoOp {
	return &NoOp{}
}

func (NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

func (NoOp) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Cached()          {}
func (noopVertex) Complete(_ error) {}

var _ ports.Telemetry = (*NoOp)(nil)
