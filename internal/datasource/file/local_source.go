// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"mariprog/internal/datasource"
)

// Local opens one export file from the local disk.
type Local struct{ path string }

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Opener is a datasource.Opener for local files.
func Opener(path string) datasource.Source { return NewLocal(path) }

// Open returns the file for reading. A context that is already done is
// reported without touching the filesystem. Filesystem errors are wrapped
// with the path and still match os.ErrNotExist and friends via errors.Is.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// ReadAll opens src, reads it to the end and closes it.
func ReadAll(ctx context.Context, src datasource.Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return b, nil
}
