// Command censusprobe inspects candidate census input files and reports
// whether they carry district-level population data.
//
// Usage:
//
//	censusprobe [-json] [-delimiter ,] path-or-url...
//	censusprobe -list files.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"census/internal/datasource"
	"census/internal/datasource/file"
	"census/internal/datasource/httpds"
	"census/internal/parser/csv"
	"census/internal/probe"

	"golang.org/x/sync/errgroup"
)

var (
	flagJSON      = flag.Bool("json", false, "print each report as JSON instead of text")
	flagList      = flag.String("list", "", "file listing one input path per line (# comments allowed)")
	flagDelimiter = flag.String("delimiter", ",", "CSV field delimiter (single character, or \\t)")
	flagInsecure  = flag.Bool("allow-insecure", false, "skip TLS verification for URL inputs")
	flagTimeout   = flag.Duration("timeout", 60*time.Second, "overall timeout")
	flagWorkers   = flag.Int("workers", 4, "inputs read concurrently")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	paths := flag.Args()
	if *flagList != "" {
		listed, err := file.ReadList(*flagList)
		if err != nil {
			fatalf("read list: %v", err)
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		paths = []string{"data/external/census_2011_district_population.csv"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	opt := csv.Options{Comma: probe.DecodeDelimiter(*flagDelimiter)}
	failed := inspectAll(ctx, paths, opt, os.Stdout)
	if failed > 0 {
		log.Printf("censusprobe: %d of %d inputs could not be read", failed, len(paths))
		os.Exit(1)
	}
}

// inspectAll prints one report per path and returns how many could not be
// read. Inputs are read concurrently but reported in argument order. With
// several inputs a verdict overview follows the reports.
func inspectAll(ctx context.Context, paths []string, opt csv.Options, w io.Writer) int {
	results := make([]probe.Report, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(max(*flagWorkers, 1))
	for i, p := range paths {
		g.Go(func() error {
			results[i], errs[i] = inspect(ctx, p, opt)
			return nil
		})
	}
	_ = g.Wait()

	var (
		reports []probe.Report
		failed  int
	)
	for i, p := range paths {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(w, "error loading %s: %v\n", p, errs[i])
			continue
		}
		r := results[i]
		var err error
		if *flagJSON {
			err = r.WriteJSON(w)
		} else {
			err = r.WriteText(w)
		}
		if err != nil {
			fatalf("write report: %v", err)
		}
		reports = append(reports, r)
	}

	if len(reports) > 1 && !*flagJSON {
		probe.SortByVerdict(reports)
		fmt.Fprintln(w, "\noverview:")
		for _, r := range reports {
			verdict := "incomplete"
			if r.Verdict.OK() {
				verdict = "ok"
			}
			fmt.Fprintf(w, "  %-10s %-7s %s\n", verdict, r.Shape, r.Path)
		}
	}
	return failed
}

func inspect(ctx context.Context, path string, opt csv.Options) (probe.Report, error) {
	var src datasource.Source = file.NewLocal(path)
	if httpds.IsURL(path) {
		src = httpds.NewSource(path, httpds.Config{Retries: 2, Insecure: *flagInsecure})
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return probe.Report{}, err
	}
	defer rc.Close()

	tbl, err := csv.ReadTable(rc, opt)
	if err != nil {
		return probe.Report{}, err
	}
	r := probe.Inspect(tbl)
	r.Path = path
	return r, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
