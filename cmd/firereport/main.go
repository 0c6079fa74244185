// Command firereport loads a fire-incident spreadsheet, normalizes it and
// prints analytics reports as JSON.
//
// Usage:
//
//	go run ./cmd/firereport -file data/fires.xlsx -report all
//	go run ./cmd/firereport -file fires.csv -report districts -limit 5
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/fire-incident-analytics/internal/adapter/sheet"
	"github.com/couchcryptid/fire-incident-analytics/internal/analytics"
	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
	"github.com/couchcryptid/fire-incident-analytics/internal/observability"
	"github.com/couchcryptid/fire-incident-analytics/internal/pipeline"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("firereport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "path to a .xlsx or .csv incident export")
	sheetName := fs.String("sheet", "", "worksheet name (first sheet when empty)")
	report := fs.String("report", "all", "report name or \"all\"")
	limit := fs.Int("limit", -1, "row limit for ranked reports (-1 uses the report default, 0 means all rows)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}

	names := analytics.ReportNames()
	if *report != "all" {
		names = []string{*report}
	}

	var params analytics.Params
	if *limit >= 0 {
		params.Limit = limit
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p := pipeline.New(sheet.NewReader(sheet.Options{Sheet: *sheetName}), pipeline.NewStore(), logger,
		observability.NewMetricsWith(prometheus.NewRegistry()))

	ds, err := p.Ingest(context.Background(), f, *file)
	if err != nil {
		return err
	}
	printDiagnostics(stderr, ds)

	out := make(map[string]any, len(names))
	for _, name := range names {
		result, err := analytics.Build(name, ds.Records, params)
		if err != nil {
			return err
		}
		out[name] = result
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if len(names) == 1 {
		return enc.Encode(out[names[0]])
	}
	return enc.Encode(out)
}

func printDiagnostics(w io.Writer, ds *domain.Dataset) {
	fmt.Fprintf(w, "%s: %d records\n", ds.Source, ds.Len())
	for _, line := range ds.Diagnostics.Summary() {
		fmt.Fprintln(w, "  "+line)
	}
	for _, n := range ds.Diagnostics.Notes {
		fmt.Fprintf(w, "  [%s] %s: %s\n", n.Level, n.Code, n.Message)
	}
}
