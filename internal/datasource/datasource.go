// Package datasource defines where export bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens one export for reading. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Opener builds a Source for a path. Loaders take an Opener so tests can
// substitute in-memory inputs for files.
type Opener func(path string) Source
