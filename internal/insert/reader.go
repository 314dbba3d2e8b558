package insert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutsideRoot is returned by RootReader for targets outside its directory.
var ErrOutsideRoot = errors.New("path is outside the insert root")

// RootReader confines reads to one directory tree. Absolute targets outside
// the tree, ".." escapes and symlinks leaving the tree are refused.
type RootReader struct {
	dir  string
	root *os.Root
}

// NewRootReader opens dir as the confinement root.
func NewRootReader(dir string) (*RootReader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve insert root: %w", err)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open insert root: %w", err)
	}
	return &RootReader{dir: abs, root: root}, nil
}

// ReadFile implements FileReader. name is a path as produced by
// Transform.Resolve.
func (r *RootReader) ReadFile(name string) ([]byte, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(r.dir, abs)
	if err != nil || !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%s: %w", name, ErrOutsideRoot)
	}
	return r.root.ReadFile(rel)
}

// Close releases the root directory handle.
func (r *RootReader) Close() error {
	return r.root.Close()
}
