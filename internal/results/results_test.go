package results

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sample() []Record {
	return []Record{
		{Library: "duckdb", RowCount: 1000, Elapsed: 120 * time.Millisecond},
		{Library: "arrow", RowCount: 100, Elapsed: 10 * time.Millisecond},
		{Library: "arrow", RowCount: 1000, Elapsed: 90 * time.Millisecond},
		{Library: "duckdb", RowCount: 100, Failed: true, Reason: "FileNotFound"},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	if err := WriteCSV(path, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(rows))
	}

	if got := strings.Join(rows[0], ","); got != "library,row_count,elapsed_seconds" {
		t.Errorf("bad header: %q", got)
	}

	// Execution order preserved
	if rows[1][0] != "duckdb" || rows[1][1] != "1000" {
		t.Errorf("expected first record first, got %v", rows[1])
	}

	// Failed job keeps its slot with the sentinel, never a zero time
	if rows[4][2] != FailureSentinel {
		t.Errorf("expected %q for failed job, got %q", FailureSentinel, rows[4][2])
	}
}

func TestWritePivot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.csv")

	if err := WritePivot(path, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 size rows, got %d", len(rows))
	}

	// Columns sorted by library name, rows by ascending size
	if got := strings.Join(rows[0], ","); got != "size,arrow,duckdb" {
		t.Errorf("bad header: %q", got)
	}
	if rows[1][0] != "100" || rows[2][0] != "1000" {
		t.Errorf("expected ascending sizes, got %v %v", rows[1][0], rows[2][0])
	}

	// duckdb@100 failed in every repetition
	if rows[1][2] != FailureSentinel {
		t.Errorf("expected sentinel for all-failed cell, got %q", rows[1][2])
	}
	if rows[1][1] == FailureSentinel {
		t.Error("expected numeric cell for successful pair")
	}
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{Library: "arrow", RowCount: 100, Elapsed: 10 * time.Millisecond},
		{Library: "arrow", RowCount: 100, Elapsed: 20 * time.Millisecond},
		{Library: "arrow", RowCount: 100, Elapsed: 30 * time.Millisecond},
		{Library: "duckdb", RowCount: 100, Failed: true},
	}

	cells := Summarize(records)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}

	arrow := cells[0]
	if arrow.Library != "arrow" {
		arrow = cells[1]
	}

	if arrow.Runs != 3 || arrow.Failures != 0 {
		t.Errorf("arrow cell: %+v", arrow)
	}
	if arrow.Mean < 0.019 || arrow.Mean > 0.021 {
		t.Errorf("expected mean near 0.020, got %f", arrow.Mean)
	}
	// DDSketch guarantees 1% relative accuracy around the true median
	if arrow.P50 < 0.0195 || arrow.P50 > 0.0205 {
		t.Errorf("expected p50 near 0.020, got %f", arrow.P50)
	}

	for _, c := range cells {
		if c.Library == "duckdb" && (c.Failures != 1 || c.Runs != 1) {
			t.Errorf("duckdb cell: %+v", c)
		}
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, Summarize(sample()))

	out := buf.String()
	for _, want := range []string{"arrow", "duckdb", "1000", FailureSentinel} {
		if !strings.Contains(out, want) {
			t.Errorf("summary table missing %q:\n%s", want, out)
		}
	}
}
