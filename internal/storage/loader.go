package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to columns) and return the number of rows
// reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadRows splits rows into batches of at most batchSize and calls copyFn for
// each, in order. It returns the total reported by copyFn and stops at the
// first error. onBatch, when non-nil, is called after every successful batch
// with that batch's count.
//
// Progress is logged on each successful flush.
func LoadRows(
	ctx context.Context,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
	onBatch func(n int64),
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		start       = time.Now()
		lastFlushTS = start
	)

	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := lo + batchSize
		if hi > len(rows) {
			hi = len(rows)
		}

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Printf("loader: copy failed batch=%d inserted=%d total=%d err=%v", batches+1, n, total, err)
			return total, err
		}

		batches++
		now := time.Now()
		log.Printf(
			"loader: batch #%d inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			batches,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			now.Sub(lastFlushTS).Truncate(time.Millisecond),
		)
		lastFlushTS = now
		if onBatch != nil {
			onBatch(n)
		}
	}
	return total, nil
}
