// Package datasource defines where pipeline input comes from and where its
// output goes. The file subpackage is the only implementation today.
package datasource

import (
	"context"
	"io"
)

// Source yields the raw bytes of one input table.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Sink receives one output table. fill writes the full contents; the sink
// publishes them only if fill succeeds, and reports the number of bytes
// written.
type Sink interface {
	Replace(ctx context.Context, fill func(w io.Writer) error) (int64, error)
}
