package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmcdole/reel/internal/domain"
)

// FileLoader reads fragments from a local content root. This is the
// transport used when rendering on a server or at build time.
type FileLoader struct {
	root string
}

// NewFileLoader creates a loader rooted at dir
func NewFileLoader(root string) *FileLoader {
	return &FileLoader{root: root}
}

// Root returns the content root directory
func (l *FileLoader) Root() string { return l.root }

// Fetch reads the file for path
func (l *FileLoader) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Path: path, Err: err}
	}

	rel, err := resolve(path)
	if err != nil {
		return nil, &domain.FetchError{Path: path, Err: err}
	}

	full := filepath.Join(l.root, filepath.FromSlash(rel))
	if !isSubpath(l.root, full) {
		return nil, &domain.FetchError{Path: path, Err: domain.ErrInvalidPath}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
		return nil, &domain.FetchError{Path: path, Err: err}
	}
	return data, nil
}
