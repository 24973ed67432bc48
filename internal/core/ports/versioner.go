package ports

// DirVersioner produces a content-derived version proxy for a plugin's base
// directory. The digest must be deterministic and sensitive to the installed
// code, never the literal path string. The concrete policy (manifest digest
// versus full walk) is pluggable.
type DirVersioner interface {
	Digest(dir string) (string, error)
}
