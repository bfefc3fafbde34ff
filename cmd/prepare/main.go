// Command prepare validates and reshapes a single table into the canonical
// format. It reads a scalar or time series table in any of the accepted
// layouts, fills optional columns, optionally filters, aggregates or
// unstacks the data and writes the result as CSV.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"b3data/internal/config"
	"b3data/internal/dataprocessing"
	"b3data/internal/infrastructure"
	"b3data/internal/schema"
	"b3data/internal/validation"
	"b3data/pkg/contracts"
)

func main() {
	kind := flag.String("kind", "scalar", "record kind of the input table (scalar or timeseries)")
	in := flag.String("in", "", "input table file (.csv or .xlsx)")
	out := flag.String("out", "", "output CSV file")
	configPath := flag.String("config", "", "optional YAML config file")
	filter := flag.String("filter", "", "keep only matching rows, e.g. region=BE,BB")
	aggregate := flag.String("aggregate", "", "dimensions to collapse, e.g. region,tech")
	unstack := flag.Bool("unstack", false, "write time series in wide format")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: prepare -kind scalar|timeseries -in <table> -out <table.csv>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if err := run(cfg, *kind, *in, *out, *filter, *aggregate, *unstack); err != nil {
		logger.Error("Preparation failed", "file", *in, "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, kind, in, out, filter, aggregate string, unstack bool) error {
	validator := validation.NewFileValidator(slog.Default())
	if err := validator.ValidateTableFile(in); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(filepath.Dir(out)); err != nil {
		return err
	}

	regions := dataprocessing.NewSubstringRegionExtractor(cfg.Regions.CodeA, cfg.Regions.CodeB)
	loader := dataprocessing.NewLoader(slog.Default(), regions)

	switch schema.Kind(kind) {
	case schema.KindScalar:
		return prepareScalars(loader, in, out, filter, aggregate)
	case schema.KindTimeseries:
		if aggregate != "" {
			return fmt.Errorf("aggregation is only available for scalar data")
		}
		return prepareTimeseries(loader, in, out, filter, unstack)
	default:
		return fmt.Errorf("unknown kind %q, expected scalar or timeseries", kind)
	}
}

func prepareScalars(loader *dataprocessing.Loader, in, out, filter, aggregate string) error {
	records, err := loader.LoadScalars(in)
	if err != nil {
		return err
	}

	if filter != "" {
		column, values, err := parseFilter(filter)
		if err != nil {
			return err
		}
		if records, err = dataprocessing.FilterScalars(records, column, values...); err != nil {
			return err
		}
	}

	if aggregate != "" {
		if records, err = dataprocessing.AggregateScalars(records, splitList(aggregate), nil); err != nil {
			return err
		}
	}

	return dataprocessing.SaveScalars(records, out)
}

func prepareTimeseries(loader *dataprocessing.Loader, in, out, filter string, unstack bool) error {
	records, err := loader.LoadTimeseries(in)
	if err != nil {
		return err
	}

	if filter != "" {
		column, values, err := parseFilter(filter)
		if err != nil {
			return err
		}
		if records, err = dataprocessing.FilterTimeseries(records, column, values...); err != nil {
			return err
		}
	}

	if unstack {
		wide, err := dataprocessing.Unstack(records)
		if err != nil {
			return err
		}
		return dataprocessing.SaveWide(wide, out)
	}
	return dataprocessing.SaveTimeseries(records, out)
}

// parseFilter splits "column=v1,v2" into its column and values.
func parseFilter(expr string) (string, []string, error) {
	column, list, found := strings.Cut(expr, "=")
	if !found || column == "" || list == "" {
		return "", nil, fmt.Errorf("invalid filter %q, expected column=value[,value...]", expr)
	}
	return column, splitList(list), nil
}

func splitList(list string) []string {
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
