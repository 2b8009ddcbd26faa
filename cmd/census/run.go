package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"census/internal/config"
	"census/internal/datasource"
	"census/internal/datasource/file"
	"census/internal/datasource/httpds"
	"census/internal/metrics"
	"census/internal/normalize"
	"census/internal/parser/csv"
	"census/internal/report"
	"census/internal/schema"
	"census/internal/storage"
	"census/internal/validate"
	"census/pkg/records"
)

// Test seams; production code never reassigns them.
var (
	openSourceFn    = openSource
	newRepositoryFn = storage.New
)

// outcome is what a successful run leaves behind, for the caller's logs.
type outcome struct {
	Shape     schema.Shape
	Rows      int
	Bytes     int64
	Published int64
	Summary   validate.Summary
}

// run executes one pass: load, classify, normalize, validate, write, report
// and, when storage.kind is set, publish. Every failure is fatal; the output
// file is only replaced after validation succeeds.
func run(ctx context.Context, p config.Pipeline, out io.Writer, verbose bool) (outcome, error) {
	var res outcome
	job := p.Job

	var tbl records.Table
	err := timed(job, "load", func() error {
		rc, err := openSourceFn(p.Input).Open(ctx)
		if err != nil {
			return err
		}
		defer rc.Close()
		tbl, err = csv.ReadTable(rc, csvOptions(p.Input.Options))
		if err != nil {
			return fmt.Errorf("load %s: %w", p.Input.Path, err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRows(job, "input", int64(tbl.Len()))
	log.Printf("load: path=%s rows=%d columns=%d", p.Input.Path, tbl.Len(), len(tbl.Columns))

	err = timed(job, "classify", func() error {
		res.Shape = schema.Classify(tbl.Columns)
		if res.Shape == schema.Unknown {
			return schema.NewUnknownSchemaError(tbl.Columns)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	log.Printf("classify: shape=%s", res.Shape)

	var canon records.Table
	err = timed(job, "normalize", func() error {
		policy, err := normalize.ParseJoinPolicy(p.Join.UnmatchedState)
		if err != nil {
			return err
		}
		n := normalize.New()
		n.Unmatched = policy
		if verbose {
			n.Trace = func(step string, in, out int) {
				log.Printf("normalize: step=%s in=%d out=%d", step, in, out)
			}
		}
		normalized, nres, err := n.Normalize(tbl, res.Shape)
		metrics.RecordRows(job, "unmatched", int64(len(nres.Unmatched)))
		if err != nil {
			return err
		}
		metrics.RecordRows(job, "districts", int64(nres.DistrictRows))
		metrics.RecordRows(job, "duplicates", int64(nres.Duplicates))
		if res.Shape == schema.Raw {
			log.Printf("normalize: districts=%d states=%d unmatched=%d duplicates=%d",
				nres.DistrictRows, nres.LookupStates, len(nres.Unmatched), nres.Duplicates)
		}
		canon = normalized
		return nil
	})
	if err != nil {
		return res, err
	}

	err = timed(job, "validate", func() error {
		var err error
		canon, err = validate.Canonical(canon)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Rows = canon.Len()
	res.Summary = validate.Summarize(canon)
	for _, k := range res.Summary.DuplicateKeys {
		log.Printf("validate: warning: duplicate state/district %s", k)
	}

	var sink datasource.Sink = file.NewLocal(p.Output.Path)
	err = timed(job, "write", func() error {
		n, err := sink.Replace(ctx, func(w io.Writer) error {
			return csv.WriteTable(w, canon, schema.CanonicalColumns, csv.WriteOptions{})
		})
		if err != nil {
			return fmt.Errorf("write %s: %w", p.Output.Path, err)
		}
		res.Bytes = n
		return nil
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRows(job, "written", int64(canon.Len()))
	log.Printf("write: path=%s rows=%d bytes=%d", p.Output.Path, canon.Len(), res.Bytes)

	err = report.Print(out, report.Run{
		Input:      p.Input.Path,
		Output:     p.Output.Path,
		Shape:      res.Shape.String(),
		Summary:    res.Summary,
		Sample:     canon,
		SampleRows: p.Report.SampleRows,
		Bytes:      res.Bytes,
	})
	if err != nil {
		return res, fmt.Errorf("report: %w", err)
	}

	if p.Storage.Kind != "" {
		err = timed(job, "publish", func() error {
			n, err := publish(ctx, p, canon)
			res.Published = n
			return err
		})
		if err != nil {
			return res, err
		}
		metrics.RecordRows(job, "published", res.Published)
	}

	metrics.RecordSummary(job, metrics.Summary{
		Districts: res.Summary.Districts,
		States:    res.Summary.States,
		Pop2011:   res.Summary.Pop2011,
		Pop2025:   res.Summary.Pop2025,
	})
	return res, nil
}

// publish replaces the configured table with canon.
func publish(ctx context.Context, p config.Pipeline, canon records.Table) (int64, error) {
	db := p.Storage.DB
	repo, err := newRepositoryFn(ctx, storage.Config{Kind: p.Storage.Kind, DSN: db.DSN, Table: db.Table})
	if err != nil {
		return 0, fmt.Errorf("publish: open %s: %w", p.Storage.Kind, err)
	}
	defer repo.Close()

	if db.AutoCreateTable {
		if err := storage.EnsureTable(ctx, p.Storage.Kind, repo, db.Table); err != nil {
			return 0, fmt.Errorf("publish: ensure table %s: %w", db.Table, err)
		}
	}
	n, err := storage.Publish(ctx, repo, canon, schema.CanonicalColumns, storage.PublishOptions{
		BatchSize: db.BatchSize,
		OnBatch:   func(int64) { metrics.RecordBatches(p.Job, 1) },
	})
	if err != nil {
		return n, err
	}
	log.Printf("publish: kind=%s table=%s rows=%d", p.Storage.Kind, db.Table, n)
	return n, nil
}

// timed runs fn as the named step and records its outcome.
func timed(job, step string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, step, err, time.Since(start))
	return err
}

// openSource picks the HTTP source for URLs and the local file otherwise.
func openSource(in config.Input) datasource.Source {
	if httpds.IsURL(in.Path) {
		return httpds.NewSource(in.Path, httpds.Config{
			Retries:  in.Options.Int("retries", 2),
			Insecure: in.Options.Bool("insecure", false),
		})
	}
	return file.NewLocal(in.Path)
}

// csvOptions maps input.options onto the CSV reader.
func csvOptions(o config.Options) csv.Options {
	return csv.Options{
		Comma:     o.Rune("comma", ','),
		TrimSpace: o.Bool("trim_space", false),
		HeaderMap: o.StringMap("header_map"),
	}
}
