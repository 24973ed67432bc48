// Package fs provides the file system adapters for walking the input tree,
// versioning plugin directories, and writing transform output.
package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
)

// Walker implements ports.TreeWalker. Paths in the returned entries are
// slash-separated and relative to the root, sorted lexicographically so a
// pass visits files in a stable order.
type Walker struct{}

func NewWalker() *Walker {
	return &Walker{}
}

func (w *Walker) Walk(root string, exts []string) ([]domain.FileEntry, error) {
	var entries []domain.FileEntry

	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (name == ".git" || name == ".jj") {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesExt(d.Name(), exts) {
			return nil
		}

		content, err := os.ReadFile(path) //nolint:gosec // Path comes from the walk itself
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read source file"), "path", path)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}

		entries = append(entries, domain.FileEntry{
			Path:    filepath.ToSlash(rel),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk input tree"), "root", root)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func matchesExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
