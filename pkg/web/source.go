package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrComponentNotFound indicates a component reference has no source.
var ErrComponentNotFound = errors.New("web: component not found")

// Source loads the template source of a component reference.
type Source interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// FSSource reads components from a file system. A reference such as
// "pages/Login" maps to the file "pages/Login" + ext.
type FSSource struct {
	fsys fs.FS
	ext  string
}

// NewFSSource creates a Source over fsys using the given file extension.
func NewFSSource(fsys fs.FS, ext string) *FSSource {
	return &FSSource{fsys: fsys, ext: ext}
}

// Load reads the source for ref.
func (s *FSSource) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(ref + s.ext) {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, ref)
	}

	data, err := fs.ReadFile(s.fsys, ref+s.ext)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, ref)
		}
		return nil, fmt.Errorf("load component %q: %w", ref, err)
	}
	return data, nil
}
