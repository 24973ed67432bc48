package ports

import "context"

// Telemetry records per-file progress for a build pass.
type Telemetry interface {
	// Record starts a vertex for one unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is one recorded unit of work.
type Vertex interface {
	// Cached marks the vertex as a cache hit.
	Cached()
	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)
}
