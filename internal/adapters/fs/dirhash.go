package fs

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// manifestFiles are checked in order; the first one present stands in for
// the whole directory. Hashing just the manifest keeps versioning cheap for
// installed plugin packages whose manifest pins their content.
var manifestFiles = []string{"plugin.lock", "plugin.yaml", "manifest.json"}

// DirHasher implements ports.DirVersioner with content digests. With no
// manifest present it falls back to hashing every file under the directory
// in walk order, so the digest tracks installed code rather than the path.
type DirHasher struct {
	walker *Walker
}

func NewDirHasher(walker *Walker) *DirHasher {
	return &DirHasher{walker: walker}
}

func (h *DirHasher) Digest(dir string) (string, error) {
	for _, name := range manifestFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			sum, err := hashFile(path)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s:%016x", name, sum), nil
		}
	}
	return h.hashTree(dir)
}

func (h *DirHasher) hashTree(dir string) (string, error) {
	hasher := xxhash.New()

	err := filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != dir && (name == ".git" || name == ".jj") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		sum, err := hashFile(path)
		if err != nil {
			return err
		}
		_, _ = hasher.WriteString(filepath.ToSlash(rel))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(fmt.Sprintf("%016x", sum))
		_, _ = hasher.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to version plugin directory"), "dir", dir)
	}

	return fmt.Sprintf("tree:%016x", hasher.Sum64()), nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return hasher.Sum64(), nil
}
