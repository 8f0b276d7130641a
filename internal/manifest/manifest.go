// Package manifest records which sample files exist on disk.
//
// The manifest is a two-column delimited file, header "row_count,filename",
// one row per generated sample in request order. It is overwritten on every
// sampler run and read back by the experiment driver to discover datasets.
package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

// Entry maps one generated sample's row count to its filename.
type Entry struct {
	RowCount int64
	Filename string
}

// DatasetID returns the filename without its extension, the identifier
// adapters use to locate input and name output.
func (e Entry) DatasetID() string {
	if i := strings.LastIndex(e.Filename, "."); i > 0 {
		return e.Filename[:i]
	}
	return e.Filename
}

// Write overwrites the manifest file with the given entries, in order.
func Write(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row_count", "filename"}); err != nil {
		f.Close()
		return fmt.Errorf("write manifest header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write([]string{strconv.FormatInt(e.RowCount, 10), e.Filename}); err != nil {
			f.Close()
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush manifest: %w", err)
	}

	return f.Close()
}

// Read loads the manifest file.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, pqerrors.ErrManifestNotFound)
		}
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pqerrors.ErrManifestFormat, err)
	}
	if len(records) == 0 || records[0][0] != "row_count" || records[0][1] != "filename" {
		return nil, fmt.Errorf("%w: missing header", pqerrors.ErrManifestFormat)
	}

	entries := make([]Entry, 0, len(records)-1)
	for _, rec := range records[1:] {
		n, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: bad row_count %q", pqerrors.ErrManifestFormat, rec[0])
		}
		if rec[1] == "" {
			return nil, fmt.Errorf("%w: empty filename", pqerrors.ErrManifestFormat)
		}
		entries = append(entries, Entry{RowCount: n, Filename: rec[1]})
	}

	return entries, nil
}
