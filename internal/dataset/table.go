// Package dataset holds the merged source table used for sample generation.
//
// The table schema is opaque to the harness: rows are kept in parquet-go's
// raw row representation and written back out under the source schema, so
// any flat Parquet input works without per-column mapping.
package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// readBatchRows is the row batch size used when loading the source table.
const readBatchRows = 4096

// Table is an in-memory source table with an opaque schema.
type Table struct {
	schema *parquet.Schema
	rows   []parquet.Row
	path   string
}

// Load reads an entire Parquet file into memory. The table is held only
// transiently during sample generation.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	t := &Table{
		schema: pf.Schema(),
		rows:   make([]parquet.Row, 0, pf.NumRows()),
		path:   path,
	}

	buf := make([]parquet.Row, readBatchRows)
	for _, rg := range pf.RowGroups() {
		rr := rg.Rows()
		for {
			n, err := rr.ReadRows(buf)
			for i := 0; i < n; i++ {
				// Rows reference the reader's buffers; clone before keeping.
				t.rows = append(t.rows, buf[i].Clone())
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rr.Close()
				return nil, fmt.Errorf("read rows: %w", err)
			}
			if n == 0 {
				break
			}
		}
		if err := rr.Close(); err != nil {
			return nil, fmt.Errorf("close row reader: %w", err)
		}
	}

	return t, nil
}

// Schema returns the source schema.
func (t *Table) Schema() *parquet.Schema {
	return t.schema
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int64 {
	return int64(len(t.rows))
}

// Row returns row i.
func (t *Table) Row(i int) parquet.Row {
	return t.rows[i]
}

// Path returns the file the table was loaded from.
func (t *Table) Path() string {
	return t.path
}
