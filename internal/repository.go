package internal

import (
	"context"
	"io"
)

// Repository stores the artifacts of a reconciliation run, such as the
// diff output and the run report.
type Repository interface {
	Write(ctx context.Context, path string, reader io.Reader) error
}
