package ports

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/refractlabs/refract/internal/core/domain"
)

// TransformCache is the persistent key→record store for transform output.
// Put stages records in memory; Flush persists them. A pass that aborts
// before Flush leaves the durable state untouched.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type TransformCache interface {
	// Get retrieves the record for a file key. Returns nil, nil on a miss.
	Get(key string) (*domain.CacheRecord, error)

	// Put stages a record for the given key.
	Put(rec domain.CacheRecord) error

	// InvalidateAll wipes every record. Called when the configuration
	// fingerprint no longer matches the one the cache was populated under.
	InvalidateAll() error

	// Keys returns the sorted set of record keys currently present.
	Keys() ([]string, error)

	// Prune drops every record whose key is not in live and returns the
	// removed keys.
	Prune(live mapset.Set[string]) ([]string, error)

	// Fingerprint returns the configuration fingerprint recorded when the
	// cache was last populated, or "" for a fresh cache.
	Fingerprint() (string, error)

	// SetFingerprint records the fingerprint the cache is populated under.
	SetFingerprint(fp string) error

	// Flush persists the staged state.
	Flush() error
}
