package domain

import (
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrConfiguration is returned when a plugin or resolver descriptor is
	// malformed or its module cannot be loaded.
	ErrConfiguration = zerr.New("invalid transform configuration")

	// ErrTransform is returned when the transformer rejects a specific file,
	// e.g. on a parse failure. It is terminal for the pass and never retried.
	ErrTransform = zerr.New("transform failed")

	// ErrWorkerCrashed signals abnormal termination of a worker process while
	// a job was in flight. It is recoverable: the pool retries the job once.
	ErrWorkerCrashed = zerr.New("worker process crashed")

	// ErrWorkerTerminated is returned when a worker crashed twice for the
	// same job. It is terminal for the pass.
	ErrWorkerTerminated = zerr.New("worker terminated repeatedly")

	// ErrUnlistedHelper is returned when transformed output references a
	// runtime helper excluded by the helper allow-list.
	ErrUnlistedHelper = zerr.New("unlisted runtime helper")

	// ErrNoInputFiles is returned when the input tree yields nothing to
	// transform.
	ErrNoInputFiles = zerr.New("no input files found")
)

// UnlistedHelperError builds the terminal error for output that references
// helpers missing from the allow-list. The message names the file and every
// offending helper in sorted order.
func UnlistedHelperError(path string, helpers []string) error {
	sorted := make([]string, len(helpers))
	copy(sorted, helpers)
	sort.Strings(sorted)

	var msg string
	if len(sorted) == 1 {
		msg = fmt.Sprintf("output of %s relies on the helper %s, which is not in the helper allow-list", path, sorted[0])
	} else {
		msg = fmt.Sprintf("output of %s relies on the helpers %s, which are not in the helper allow-list", path, strings.Join(sorted, ", "))
	}

	return zerr.With(zerr.Wrap(ErrUnlistedHelper, msg), "path", path)
}
