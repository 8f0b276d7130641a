package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pqbench/pqbench/config"
)

// Config represents the complete harness configuration.
type Config struct {
	// Extract configures the remote source download and merge.
	Extract ExtractConfig `yaml:"extract"`

	// Sample configures sample generation.
	Sample SampleConfig `yaml:"sample"`

	// Run configures the timed experiment.
	Run RunConfig `yaml:"run"`
}

// ExtractConfig configures the remote source download and merge.
type ExtractConfig struct {
	// BaseURL is the base URL serving one Parquet file per month.
	BaseURL string `yaml:"base_url"`

	// Year is the trip-record year to download.
	Year int `yaml:"year"`

	// MonthStart is the first month of the source range (1 = Jan).
	MonthStart int `yaml:"month_start"`

	// MonthStop is the last month of the source range (12 = Dec).
	MonthStop int `yaml:"month_stop"`

	// CacheDir holds downloaded monthly files and the merged source table.
	CacheDir string `yaml:"cache_dir"`
}

// SampleConfig configures sample generation.
type SampleConfig struct {
	// Sizes are the sample row counts to generate, in request order.
	Sizes []int64 `yaml:"sizes"`

	// Seed seeds the deterministic random draw shared across all sizes.
	Seed int64 `yaml:"seed"`

	// OutputDir is where sample Parquet files are written.
	OutputDir string `yaml:"output_dir"`

	// ManifestPath is the manifest file mapping row counts to filenames.
	ManifestPath string `yaml:"manifest"`
}

// RunConfig configures the timed experiment.
type RunConfig struct {
	// OutputDir is the transient CSV output directory claimed by each job.
	OutputDir string `yaml:"output_dir"`

	// ResultsPath is where per-job timings are written.
	ResultsPath string `yaml:"results"`

	// PivotPath is where the size-by-library pivot table is written.
	// Empty disables the pivot output.
	PivotPath string `yaml:"pivot"`

	// BatchRows bounds rows per write batch (eager adapters) and rows per
	// output part (streaming adapter).
	BatchRows int64 `yaml:"batch_rows"`

	// Repetitions is the number of timed runs per (library, size) pair.
	Repetitions int `yaml:"repetitions"`

	// ShuffleSeed seeds the job-order shuffle. Zero means time-seeded.
	ShuffleSeed int64 `yaml:"shuffle_seed"`

	// MemoryLimit is the DuckDB memory limit for the SQL adapter.
	MemoryLimit string `yaml:"memory_limit"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			BaseURL:    config.DefaultTripDataURL,
			Year:       config.DefaultYear,
			MonthStart: config.DefaultMonthStart,
			MonthStop:  config.DefaultMonthStop,
			CacheDir:   "data/source",
		},
		Sample: SampleConfig{
			Sizes:        append([]int64(nil), config.DefaultSampleSizes...),
			Seed:         config.DefaultSampleSeed,
			OutputDir:    config.DefaultParquetDir,
			ManifestPath: config.DefaultManifestPath,
		},
		Run: RunConfig{
			OutputDir:   config.DefaultCSVDir,
			ResultsPath: config.DefaultResultsPath,
			PivotPath:   config.DefaultPivotPath,
			BatchRows:   config.DefaultBatchRows,
			Repetitions: config.DefaultRepetitions,
			MemoryLimit: config.DefaultMemoryLimit,
		},
	}
}
