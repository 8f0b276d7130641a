// Package testutil provides test fixtures for the pqbench harness.
package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

// Trip is a small flat row type standing in for the opaque source schema.
type Trip struct {
	VendorID  int32   `parquet:"vendor_id"`
	PickupMs  int64   `parquet:"pickup_ms"`
	Distance  float64 `parquet:"distance"`
	Fare      float64 `parquet:"fare"`
	Payment   string  `parquet:"payment"`
	StoreFlag bool    `parquet:"store_flag"`
}

// MakeTrips generates n deterministic trip rows.
func MakeTrips(n int) []Trip {
	trips := make([]Trip, n)
	for i := range trips {
		trips[i] = Trip{
			VendorID:  int32(i%3 + 1),
			PickupMs:  1704067200000 + int64(i)*60000,
			Distance:  float64(i%50) * 0.3,
			Fare:      2.5 + float64(i%20)*1.75,
			Payment:   []string{"card", "cash", "dispute"}[i%3],
			StoreFlag: i%7 == 0,
		}
	}
	return trips
}

// WriteTrips writes n generated trip rows as a Parquet file.
func WriteTrips(t *testing.T, path string, n int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create parquet: %v", err)
	}

	w := parquet.NewGenericWriter[Trip](f)
	if _, err := w.Write(MakeTrips(n)); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}

// CountCSVDataRows returns the number of data rows (excluding the header)
// in a CSV file.
func CountCSVDataRows(t *testing.T, path string) int {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) == 0 {
		t.Fatalf("csv %s has no header", path)
	}
	return len(records) - 1
}

// ParquetRowCount returns the number of rows in a Parquet file.
func ParquetRowCount(t *testing.T, path string) int64 {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		t.Fatalf("stat parquet: %v", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatalf("open parquet file: %v", err)
	}
	return pf.NumRows()
}

// DatasetID builds the dataset identifier used in sample filenames.
func DatasetID(year, monthStart, monthStop int, rows int64) string {
	return fmt.Sprintf("taxi_data_%d-%02d%02d_%d", year, monthStart, monthStop, rows)
}
