// Package config provides configuration defaults and utilities
// for the pqbench harness.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or CLI flags.
package config

// =============================================================================
// Source Data Defaults
// =============================================================================

const (
	// DefaultTripDataURL is the base URL for NYC yellow taxi trip records.
	// One Parquet file is published per month.
	// Override via config: extract.base_url
	DefaultTripDataURL = "https://d37ci6vzurychx.cloudfront.net/trip-data"

	// DefaultYear is the trip-record year to download.
	// Override via config: extract.year
	DefaultYear = 2024

	// DefaultMonthStart is the first month of the source range (1 = Jan).
	// Override via config: extract.month_start
	DefaultMonthStart = 1

	// DefaultMonthStop is the last month of the source range (12 = Dec).
	// Override via config: extract.month_stop
	DefaultMonthStop = 4
)

// =============================================================================
// Sampling Defaults
// =============================================================================

const (
	// DefaultSampleSeed seeds the deterministic sample draw. Re-running
	// sample generation with the same seed produces byte-identical files.
	// Override via config: sample.seed
	DefaultSampleSeed = 721

	// DefaultParquetDir is where generated sample files are written.
	// Override via config: sample.output_dir
	DefaultParquetDir = "data/parquet"

	// DefaultManifestPath records each generated sample's row count and filename.
	// Override via config: sample.manifest
	DefaultManifestPath = "extracted_files.csv"
)

// DefaultSampleSizes are the dataset sizes benchmarked, in rows.
// Override via config: sample.sizes
var DefaultSampleSizes = []int64{100, 1000, 10000, 100000, 1000000, 10000000}

// =============================================================================
// Experiment Defaults
// =============================================================================

const (
	// DefaultCSVDir is the transient conversion output directory. Each job
	// claims it exclusively and removes it after measurement.
	// Override via config: run.output_dir
	DefaultCSVDir = "data/csv"

	// DefaultResultsPath is where per-job timings are written.
	// Override via config: run.results
	DefaultResultsPath = "results.csv"

	// DefaultPivotPath is the size-by-library pivot table. Empty disables it.
	// Override via config: run.pivot
	DefaultPivotPath = "results_pivot.csv"

	// DefaultBatchRows bounds rows per write batch for the eager adapters
	// and rows per output part for the streaming adapter. A performance
	// tuning knob, not a correctness requirement.
	// Override via config: run.batch_rows
	DefaultBatchRows = 500000

	// DefaultRepetitions is the number of timed runs per (library, size) pair.
	// Override via config: run.repetitions
	DefaultRepetitions = 1

	// DefaultMemoryLimit caps DuckDB memory for the SQL adapter and the
	// extraction merge. Empty means the engine default.
	// Override via config: run.memory_limit
	DefaultMemoryLimit = ""
)
