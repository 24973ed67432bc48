package ports

import "github.com/refractlabs/refract/internal/core/domain"

// ConfigLoader reads the project configuration from a working directory.
type ConfigLoader interface {
	Load(dir string) (*domain.BuildConfig, error)
}

// TreeWalker enumerates the input tree as relative-path file entries,
// filtered by the extension allow-list (empty list admits everything).
type TreeWalker interface {
	Walk(root string, exts []string) ([]domain.FileEntry, error)
}

// OutputWriter mirrors transformed files into the output tree and stores the
// dependency-graph artifact when graph tracking produced one.
type OutputWriter interface {
	Write(dir string, outputs []domain.OutputFile, graph []byte) error
}
