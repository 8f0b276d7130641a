package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

// Validate checks the configuration for errors. All failures here belong to
// the fail-fast configuration tier: nothing is downloaded, sampled, or timed
// when validation fails.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Extract.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("extract: %w", err))
	}

	if err := c.Sample.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sample: %w", err))
	}

	if err := c.Run.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("run: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the extract configuration.
func (c *ExtractConfig) Validate() error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, pqerrors.NewMissingField("base_url"))
	}

	if c.Year < 2009 {
		errs = append(errs, errors.New("year predates the trip-record archive"))
	}

	if c.MonthStart < 1 || c.MonthStart > 12 || c.MonthStop < 1 || c.MonthStop > 12 {
		errs = append(errs, pqerrors.ErrInvalidMonthRange)
	} else if c.MonthStart > c.MonthStop {
		errs = append(errs, pqerrors.ErrInvertedRange)
	}

	if c.CacheDir == "" {
		errs = append(errs, pqerrors.NewMissingField("cache_dir"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the sample configuration.
func (c *SampleConfig) Validate() error {
	var errs []error

	if len(c.Sizes) == 0 {
		errs = append(errs, pqerrors.NewMissingField("sizes"))
	}
	for _, n := range c.Sizes {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("size %d: %w", n, pqerrors.ErrInvalidSampleSize))
		}
	}

	if c.OutputDir == "" {
		errs = append(errs, pqerrors.NewMissingField("output_dir"))
	}

	if c.ManifestPath == "" {
		errs = append(errs, pqerrors.NewMissingField("manifest"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the run configuration.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.OutputDir == "" {
		errs = append(errs, pqerrors.NewMissingField("output_dir"))
	}

	if c.ResultsPath == "" {
		errs = append(errs, pqerrors.NewMissingField("results"))
	}

	if c.BatchRows <= 0 {
		errs = append(errs, errors.New("batch_rows must be positive"))
	}

	if c.Repetitions < 1 {
		errs = append(errs, errors.New("repetitions must be >= 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureDir creates dir if absent and verifies it is writable.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrOutputDir, err)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrOutputDir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}

// EnsureParentDir creates the parent directory of path if absent.
func EnsureParentDir(path string) error {
	return EnsureDir(filepath.Dir(path))
}
