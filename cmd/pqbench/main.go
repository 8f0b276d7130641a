// pqbench measures how long four Go data libraries take to convert Parquet
// samples of the NYC taxi trip records into CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pqbench/pqbench/internal/config"
	"github.com/pqbench/pqbench/internal/convert"
	"github.com/pqbench/pqbench/internal/dataset"
	"github.com/pqbench/pqbench/internal/driver"
	pqerrors "github.com/pqbench/pqbench/internal/errors"
	"github.com/pqbench/pqbench/internal/extract"
	"github.com/pqbench/pqbench/internal/logging"
	"github.com/pqbench/pqbench/internal/manifest"
	"github.com/pqbench/pqbench/internal/results"
	"github.com/pqbench/pqbench/internal/sampler"
)

// Version is set at build time via ldflags
var Version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, `pqbench %s - Parquet to CSV conversion benchmark

Usage:
  pqbench extract [flags]   download the month range, merge it, and generate samples
  pqbench sample  [flags]   regenerate samples from the cached merged source
  pqbench run     [flags]   run the timed experiment over the manifest

Common flags:
  -config path    config file (default config.yaml, defaults used if absent)
  -debug          debug logging
`, Version)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "extract":
		err = cmdExtract(os.Args[2:])
	case "sample":
		err = cmdSample(os.Args[2:])
	case "run":
		err = cmdRun(os.Args[2:])
	default:
		usage()
	}

	if err != nil {
		if pqerrors.IsConfiguration(err) {
			logging.Error("configuration error", "error", err)
		} else {
			logging.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}

// loadConfig loads the config file, falling back to defaults when absent.
func loadConfig(path string, debug bool) (*config.Config, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logging.InitAuto(level)

	cfg, err := config.Load(path)
	if err != nil {
		if pqerrors.Is(err, os.ErrNotExist) {
			logging.Info("no config file found, using defaults", "path", path)
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// parseSizes parses a comma-separated row-count list.
func parseSizes(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", p, pqerrors.ErrInvalidSampleSize)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func samplerParams(cfg *config.Config) sampler.Params {
	return sampler.Params{
		Year:         cfg.Extract.Year,
		MonthStart:   cfg.Extract.MonthStart,
		MonthStop:    cfg.Extract.MonthStop,
		Sizes:        cfg.Sample.Sizes,
		Seed:         cfg.Sample.Seed,
		OutputDir:    cfg.Sample.OutputDir,
		ManifestPath: cfg.Sample.ManifestPath,
	}
}

// sampleFrom loads the merged source table and generates all samples.
func sampleFrom(cfg *config.Config, sourcePath string) error {
	log := logging.Component("main")

	log.Info("loading source table", "path", sourcePath)
	table, err := dataset.Load(sourcePath)
	if err != nil {
		return err
	}
	log.Info("source table loaded", "rows", table.NumRows())

	entries, err := sampler.GenerateSamples(table, samplerParams(cfg))
	if err != nil {
		return err
	}

	log.Info("samples generated", "count", len(entries), "dir", cfg.Sample.OutputDir)
	return nil
}

func cmdExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "config file path")
	monthStart := fs.Int("month-start", 0, "first month (overrides config)")
	monthStop := fs.Int("month-stop", 0, "last month (overrides config)")
	debug := fs.Bool("debug", false, "debug logging")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath, *debug)
	if err != nil {
		return err
	}
	if *monthStart != 0 {
		cfg.Extract.MonthStart = *monthStart
	}
	if *monthStop != 0 {
		cfg.Extract.MonthStop = *monthStop
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := extract.New(cfg.Extract, cfg.Run.MemoryLimit)
	sourcePath, err := client.SourceTable(context.Background(), cfg.Extract.MonthStart, cfg.Extract.MonthStop)
	if err != nil {
		return err
	}

	return sampleFrom(cfg, sourcePath)
}

func cmdSample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "config file path")
	sizesFlag := fs.String("sizes", "", "comma-separated sample sizes (overrides config)")
	seed := fs.Int64("seed", 0, "sample seed (overrides config)")
	debug := fs.Bool("debug", false, "debug logging")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath, *debug)
	if err != nil {
		return err
	}
	if *sizesFlag != "" {
		sizes, err := parseSizes(*sizesFlag)
		if err != nil {
			return err
		}
		cfg.Sample.Sizes = sizes
	}
	if *seed != 0 {
		cfg.Sample.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := extract.New(cfg.Extract, cfg.Run.MemoryLimit)
	sourcePath := client.MergedPath(cfg.Extract.MonthStart, cfg.Extract.MonthStop)
	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("merged source %s not found, run 'pqbench extract' first: %w",
			sourcePath, pqerrors.ErrInputNotFound)
	}

	return sampleFrom(cfg, sourcePath)
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "config file path")
	repetitions := fs.Int("repetitions", 0, "timed runs per (library, size) pair (overrides config)")
	shuffleSeed := fs.Int64("shuffle-seed", 0, "job shuffle seed, 0 = time-seeded (overrides config)")
	resultsPath := fs.String("results", "", "results file (overrides config)")
	debug := fs.Bool("debug", false, "debug logging")
	fs.Parse(args)

	cfg, err := loadConfig(*cfgPath, *debug)
	if err != nil {
		return err
	}
	if *repetitions != 0 {
		cfg.Run.Repetitions = *repetitions
	}
	if *shuffleSeed != 0 {
		cfg.Run.ShuffleSeed = *shuffleSeed
	}
	if *resultsPath != "" {
		cfg.Run.ResultsPath = *resultsPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	entries, err := manifest.Read(cfg.Sample.ManifestPath)
	if err != nil {
		return err
	}

	adapters := convert.All(convert.Options{
		BatchRows:   cfg.Run.BatchRows,
		MemoryLimit: cfg.Run.MemoryLimit,
	})

	jobs := driver.BuildJobs(entries, adapters, cfg.Run.Repetitions)
	driver.ShuffleJobs(jobs, cfg.Run.ShuffleSeed)

	log := logging.Component("main")
	log.Info("experiment starting",
		"datasets", len(entries),
		"libraries", len(adapters),
		"repetitions", cfg.Run.Repetitions,
		"jobs", len(jobs))

	records := driver.Run(context.Background(), jobs, driver.Params{
		InputDir:  cfg.Sample.OutputDir,
		OutputDir: cfg.Run.OutputDir,
	})

	if err := results.WriteCSV(cfg.Run.ResultsPath, records); err != nil {
		return err
	}
	log.Info("results exported", "path", cfg.Run.ResultsPath, "records", len(records))

	if cfg.Run.PivotPath != "" {
		if err := results.WritePivot(cfg.Run.PivotPath, records); err != nil {
			return err
		}
		log.Info("pivot exported", "path", cfg.Run.PivotPath)
	}

	results.PrintTable(os.Stdout, results.Summarize(records))
	return nil
}
