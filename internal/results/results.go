// Package results accumulates and persists experiment measurements.
//
// A record is appended per executed job, in execution order. Failed jobs keep
// their slot with a sentinel elapsed value rather than being dropped, so the
// record count always equals the job count. Grouping and sorting for
// presentation happens here, not in the driver.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

// FailureSentinel replaces elapsed_seconds for failed jobs in CSV output.
const FailureSentinel = "NA"

// Record is the measurement of one executed job.
type Record struct {
	// Library names the adapter that ran the job.
	Library string

	// RowCount is the dataset size of the job.
	RowCount int64

	// Elapsed is the wall-clock conversion time. Meaningless when Failed.
	Elapsed time.Duration

	// Failed marks a job whose conversion reported a failure outcome.
	Failed bool

	// Reason is the failure kind name when Failed.
	Reason string
}

// Seconds returns the elapsed time in seconds.
func (r Record) Seconds() float64 {
	return r.Elapsed.Seconds()
}

// cell formats the elapsed column for CSV output.
func (r Record) cell() string {
	if r.Failed {
		return FailureSentinel
	}
	return strconv.FormatFloat(r.Seconds(), 'f', 6, 64)
}

// WriteCSV writes one row per record, in the given (execution) order, with
// header "library,row_count,elapsed_seconds". The file is overwritten.
func WriteCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"library", "row_count", "elapsed_seconds"}); err != nil {
		f.Close()
		return fmt.Errorf("write results header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Library, strconv.FormatInt(r.RowCount, 10), r.cell()}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush results: %w", err)
	}

	return f.Close()
}

// WritePivot writes a size-by-library table: one row per dataset size in
// ascending order, one column per library in name order. Cells hold the mean
// elapsed seconds over successful repetitions, or the failure sentinel when
// every repetition of that pair failed.
func WritePivot(path string, records []Record) error {
	libraries, sizes := axes(records)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pivot: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"size"}, libraries...)); err != nil {
		f.Close()
		return fmt.Errorf("write pivot header: %w", err)
	}

	for _, size := range sizes {
		row := make([]string, 0, len(libraries)+1)
		row = append(row, strconv.FormatInt(size, 10))
		for _, lib := range libraries {
			row = append(row, pivotCell(records, lib, size))
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write pivot row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush pivot: %w", err)
	}

	return f.Close()
}

// axes returns the sorted library names and dataset sizes present.
func axes(records []Record) ([]string, []int64) {
	libSet := map[string]bool{}
	sizeSet := map[int64]bool{}
	for _, r := range records {
		libSet[r.Library] = true
		sizeSet[r.RowCount] = true
	}

	libraries := make([]string, 0, len(libSet))
	for lib := range libSet {
		libraries = append(libraries, lib)
	}
	sort.Strings(libraries)

	sizes := make([]int64, 0, len(sizeSet))
	for size := range sizeSet {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	return libraries, sizes
}

func pivotCell(records []Record, library string, size int64) string {
	var sum float64
	var n int
	for _, r := range records {
		if r.Library != library || r.RowCount != size || r.Failed {
			continue
		}
		sum += r.Seconds()
		n++
	}
	if n == 0 {
		return FailureSentinel
	}
	return strconv.FormatFloat(sum/float64(n), 'f', 6, 64)
}
