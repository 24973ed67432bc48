package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
)

const graphFile = "modules.json"

// Writer implements ports.OutputWriter. It mirrors the input tree layout
// under the output directory and drops the dependency-graph artifact next
// to the outputs.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Write(dir string, outputs []domain.OutputFile, graph []byte) error {
	for _, out := range outputs {
		path := filepath.Join(dir, filepath.FromSlash(out.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", out.Path)
		}
		//nolint:gosec // Output path derives from the walked input tree
		if err := os.WriteFile(path, out.Code, 0o644); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write output"), "path", out.Path)
		}
		if out.SourceMap != nil {
			//nolint:gosec // Sidecar sits next to its output file
			if err := os.WriteFile(path+".map", out.SourceMap, 0o644); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to write source map"), "path", out.Path)
			}
		}
	}

	if graph != nil {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return zerr.Wrap(err, "failed to create output directory")
		}
		//nolint:gosec // Artifact path is fixed under the output directory
		if err := os.WriteFile(filepath.Join(dir, graphFile), graph, 0o644); err != nil {
			return zerr.Wrap(err, "failed to write module graph")
		}
	}
	return nil
}
