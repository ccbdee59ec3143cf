// Package datasource defines the contract for opening one input file's
// content. The batch driver discovers file paths and opens each through a
// Source so the pipeline itself never touches the filesystem.
package datasource

import (
	"context"
	"io"
)

type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
