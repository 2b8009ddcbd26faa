// Command census normalizes a census population table into the canonical
// per-district CSV (state, district, population_2011, population_2025) and
// optionally publishes it to a database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"census/internal/config"
	"census/internal/metrics"
	"census/internal/metrics/datadog"
	"census/internal/metrics/prompush"
	"census/internal/schema"

	// register all backends with the storage factory; storage.kind selects one.
	_ "census/internal/storage/all"
)

func main() {
	var (
		cfgPath  string
		flags    config.Overrides
		validate bool
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config (.json, .yaml); defaults apply when empty")
	flag.StringVar(&flags.Input, "input", "", "input CSV path or URL (overrides config and CENSUS_INPUT)")
	flag.StringVar(&flags.Output, "output", "", "output CSV path (overrides config and CENSUS_OUTPUT)")
	flag.StringVar(&flags.UnmatchedState, "unmatched-state", "", "fail|drop: district rows whose state code has no state row")
	flag.StringVar(&flags.StorageKind, "storage", "", "publish to this storage kind after writing (sqlite, postgres, mssql, mysql)")
	flag.StringVar(&flags.StorageDSN, "dsn", "", "storage DSN")
	flag.StringVar(&flags.MetricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway, datadog")
	flag.StringVar(&flags.PushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&flags.DatadogAddr, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	runID := uuid.NewString()
	log.SetPrefix("census " + runID[:8] + " ")

	p, err := config.Resolve(cfgPath, nil, flags)
	if err != nil {
		fatalf("config: %v", err)
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("configuration is invalid: %v", displayPath(cfgPath))
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid: %v", displayPath(cfgPath))
		os.Exit(0)
	}

	if flush := setupMetrics(p, runID, *verbose); flush != nil {
		defer flush()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if *verbose {
		log.Printf("pipeline: job=%s run_id=%s input=%s output=%s join=%s storage=%q",
			p.Job, runID, p.Input.Path, p.Output.Path, p.Join.UnmatchedState, p.Storage.Kind)
	}

	res, err := run(ctx, p, os.Stdout, *verbose)
	if err != nil {
		// Deferred flush does not run through os.Exit.
		_ = metrics.Flush()
		fatalf("%s: %v", errorKind(err), err)
	}

	log.Printf("done: shape=%s rows=%d published=%d in %s",
		res.Shape, res.Rows, res.Published, time.Since(start).Truncate(time.Millisecond))
}

// setupMetrics installs the configured backend and returns its flush, or nil
// when metrics are disabled.
func setupMetrics(p config.Pipeline, runID string, verbose bool) func() {
	flush := func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}

	switch p.Metrics.Backend {
	case "pushgateway":
		gwURL := p.Metrics.PushgatewayURL
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(p.Job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return nil
		}
		metrics.SetBackend(b.WithGrouping("run_id", runID))
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, p.Job)
		return flush

	case "datadog":
		addr := p.Metrics.DatadogAddr
		if addr == "" {
			addr = datadog.DefaultAddr
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "census.",
			GlobalTags: []string{"job:" + p.Job, "run_id:" + runID},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return nil
		}
		metrics.SetBackend(b)
		log.Printf("metrics: backend=datadog addr=%s job=%s", addr, p.Job)
		return flush

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}
		return nil

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", p.Metrics.Backend)
		return nil
	}
}

// errorKind names the failure class for the final message.
func errorKind(err error) string {
	var (
		mie *schema.MissingInputError
		use *schema.UnknownSchemaError
		jie *schema.JoinIntegrityError
		se  *schema.SchemaError
		nfe *schema.NumericFieldError
	)
	switch {
	case errors.As(err, &mie):
		return "missing input"
	case errors.As(err, &use):
		return "unknown schema"
	case errors.As(err, &jie):
		return "join integrity"
	case errors.As(err, &se), errors.As(err, &nfe):
		return "validation"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	}
	return "error"
}

func displayPath(p string) string {
	if p == "" {
		return "(defaults)"
	}
	return p
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
