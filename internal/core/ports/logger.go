package ports

// Logger defines the interface for logging.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}

// Diagnostics is the sink for cache-opt-out warnings emitted by the
// cache-key engine. The logger adapter satisfies it; tests substitute a
// capturing implementation.
type Diagnostics interface {
	Warn(msg string)
}
