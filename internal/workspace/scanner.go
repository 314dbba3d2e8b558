// Package workspace finds the markdown documents of a documentation tree.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// File represents a markdown file found during scanning.
type File struct {
	RelPath string // Relative path from the scan root (e.g., "guide/install.md")
	AbsPath string // Path on disk, joined with the scan root
}

// Scan walks root and returns every *.md file below it in lexical order.
// Directories whose name starts with a dot are skipped. The walk stops
// early if ctx is cancelled.
func Scan(ctx context.Context, root string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		files = append(files, File{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return files, nil
}
