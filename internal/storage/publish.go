package storage

import (
	"context"
	"fmt"

	"census/pkg/records"
)

// DefaultBatchSize is used when PublishOptions.BatchSize is zero.
const DefaultBatchSize = 1000

// PublishOptions configures Publish.
type PublishOptions struct {
	BatchSize int

	// OnBatch is called after every successful batch with its row count.
	OnBatch func(n int64)
}

// Publish replaces the contents of the repository's table with tbl: it
// deletes every existing row, then loads tbl in batches with values taken
// from columns in order. Re-running with the same table leaves the database
// in the same state.
//
// The delete and the inserts are not one transaction; a failure part-way
// leaves the table incomplete until the next successful run.
func Publish(ctx context.Context, repo Repository, tbl records.Table, columns []string, opt PublishOptions) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("publish: no columns")
	}
	batch := opt.BatchSize
	if batch == 0 {
		batch = DefaultBatchSize
	}

	if err := repo.Reset(ctx); err != nil {
		return 0, fmt.Errorf("publish: reset table: %w", err)
	}

	rows := make([][]any, len(tbl.Rows))
	for i, r := range tbl.Rows {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = r[c]
		}
		rows[i] = row
	}

	n, err := LoadRows(ctx, columns, rows, batch, repo.CopyFrom, opt.OnBatch)
	if err != nil {
		return n, fmt.Errorf("publish: %w", err)
	}
	return n, nil
}
