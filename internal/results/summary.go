package results

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/olekukonko/tablewriter"
)

// sketchAccuracy is the DDSketch relative accuracy for timing quantiles.
const sketchAccuracy = 0.01

// Cell summarizes all repetitions of one (library, row_count) pair.
type Cell struct {
	Library  string
	RowCount int64
	Runs     int
	Failures int

	// Mean over successful runs, seconds.
	Mean float64

	// P50 and P95 over successful runs, seconds. Only populated when more
	// than one run succeeded; quantiles of a single sample add nothing.
	P50 float64
	P95 float64
}

// Summarize groups records by (library, row_count) and computes per-cell
// timing statistics, ordered by size then library.
func Summarize(records []Record) []Cell {
	type key struct {
		library  string
		rowCount int64
	}

	sketches := map[key]*ddsketch.DDSketch{}
	cells := map[key]*Cell{}

	for _, r := range records {
		k := key{r.Library, r.RowCount}
		c := cells[k]
		if c == nil {
			c = &Cell{Library: r.Library, RowCount: r.RowCount}
			cells[k] = c
		}
		c.Runs++

		if r.Failed {
			c.Failures++
			continue
		}

		c.Mean += r.Seconds() // running sum; divided below
		sk := sketches[k]
		if sk == nil {
			sk, _ = ddsketch.NewDefaultDDSketch(sketchAccuracy)
			sketches[k] = sk
		}
		if sk != nil {
			_ = sk.Add(r.Seconds())
		}
	}

	out := make([]Cell, 0, len(cells))
	for k, c := range cells {
		succeeded := c.Runs - c.Failures
		if succeeded > 0 {
			c.Mean /= float64(succeeded)
		}
		if sk := sketches[k]; sk != nil && succeeded > 1 {
			if p50, err := sk.GetValueAtQuantile(0.50); err == nil {
				c.P50 = p50
			}
			if p95, err := sk.GetValueAtQuantile(0.95); err == nil {
				c.P95 = p95
			}
		}
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RowCount != out[j].RowCount {
			return out[i].RowCount < out[j].RowCount
		}
		return out[i].Library < out[j].Library
	})

	return out
}

// PrintTable renders the summary cells as a table.
func PrintTable(w io.Writer, cells []Cell) {
	multiRun := false
	for _, c := range cells {
		if c.Runs > 1 {
			multiRun = true
			break
		}
	}

	table := tablewriter.NewWriter(w)
	header := []string{"rows", "library", "runs", "failed", "mean_s"}
	if multiRun {
		header = append(header, "p50_s", "p95_s")
	}
	table.SetHeader(header)

	for _, c := range cells {
		row := []string{
			strconv.FormatInt(c.RowCount, 10),
			c.Library,
			strconv.Itoa(c.Runs),
			strconv.Itoa(c.Failures),
			meanCell(c),
		}
		if multiRun {
			row = append(row, quantileCell(c, c.P50), quantileCell(c, c.P95))
		}
		table.Append(row)
	}

	table.Render()
}

func meanCell(c Cell) string {
	if c.Failures == c.Runs {
		return FailureSentinel
	}
	return fmt.Sprintf("%.6f", c.Mean)
}

func quantileCell(c Cell, q float64) string {
	if c.Runs-c.Failures < 2 {
		return "-"
	}
	return fmt.Sprintf("%.6f", q)
}
