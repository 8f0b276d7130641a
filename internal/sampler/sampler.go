// Package sampler draws fixed-seed random samples from the source table and
// persists each one as an independent Parquet file.
//
// Determinism is a hard requirement: re-running sample generation with the
// same table, seed, and size list produces byte-identical output files. Each
// size's draw is seeded independently from the shared seed, so adding or
// reordering sizes never changes the rows another size selects.
package sampler

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/pqbench/pqbench/internal/config"
	"github.com/pqbench/pqbench/internal/dataset"
	pqerrors "github.com/pqbench/pqbench/internal/errors"
	"github.com/pqbench/pqbench/internal/logging"
	"github.com/pqbench/pqbench/internal/manifest"
)

var log = logging.Component("sampler")

// Params configures one sample-generation run.
type Params struct {
	// Year and month range are encoded into sample filenames.
	Year       int
	MonthStart int
	MonthStop  int

	// Sizes are the requested sample row counts, in request order.
	Sizes []int64

	// Seed seeds the deterministic draw shared across all sizes.
	Seed int64

	// OutputDir receives one Parquet file per size.
	OutputDir string

	// ManifestPath is overwritten with one row per requested size.
	ManifestPath string
}

// Filename returns the deterministic sample filename for n rows.
func (p Params) Filename(n int64) string {
	return fmt.Sprintf("taxi_data_%d-%02d%02d_%d.parquet", p.Year, p.MonthStart, p.MonthStop, n)
}

// validate checks the parameters against the source table. All failures are
// configuration errors reported before any sample is written.
func (p Params) validate(table *dataset.Table) error {
	var errs []error

	if p.MonthStart < 1 || p.MonthStart > 12 || p.MonthStop < 1 || p.MonthStop > 12 {
		errs = append(errs, pqerrors.ErrInvalidMonthRange)
	} else if p.MonthStart > p.MonthStop {
		errs = append(errs, pqerrors.ErrInvertedRange)
	}

	if len(p.Sizes) == 0 {
		errs = append(errs, pqerrors.NewMissingField("sizes"))
	}
	for _, n := range p.Sizes {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("size %d: %w", n, pqerrors.ErrInvalidSampleSize))
		} else if n > table.NumRows() {
			errs = append(errs, fmt.Errorf("size %d > %d source rows: %w",
				n, table.NumRows(), pqerrors.ErrSampleTooLarge))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// GenerateSamples draws one sample per requested size and overwrites the
// manifest. Generation is strictly sequential per size.
func GenerateSamples(table *dataset.Table, p Params) ([]manifest.Entry, error) {
	if err := p.validate(table); err != nil {
		return nil, err
	}
	if err := config.EnsureDir(p.OutputDir); err != nil {
		return nil, err
	}

	entries := make([]manifest.Entry, 0, len(p.Sizes))
	for _, n := range p.Sizes {
		name := p.Filename(n)
		path := filepath.Join(p.OutputDir, name)

		if err := writeSample(table, n, p.Seed, path); err != nil {
			return nil, fmt.Errorf("sample %d rows: %w", n, err)
		}

		log.Info("sample written", "rows", n, "file", name)
		entries = append(entries, manifest.Entry{RowCount: n, Filename: name})
	}

	if err := manifest.Write(p.ManifestPath, entries); err != nil {
		return nil, err
	}
	log.Info("manifest written", "path", p.ManifestPath, "entries", len(entries))

	return entries, nil
}

// writeSample draws exactly n distinct rows and writes them under the source
// schema. Selected indices are emitted in ascending source order; the order
// is part of the byte-identical output contract.
func writeSample(table *dataset.Table, n, seed int64, path string) error {
	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(int(table.NumRows()))[:n]
	sort.Ints(picked)

	rows := make([]parquet.Row, n)
	for i, idx := range picked {
		rows[i] = table.Row(idx)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample: %w", err)
	}

	w := parquet.NewWriter(f, table.Schema())
	if _, err := w.WriteRows(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close writer: %w", err)
	}

	return f.Close()
}
