package convert

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	goparquet "github.com/fraugster/parquet-go"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

// Frame is the row-chunked-dataframe adapter: it reads the entire input into
// an in-memory frame of generic rows, then writes CSV in ChunkRows-sized
// chunks to bound writer buffering during encoding.
type Frame struct {
	chunkRows int64
}

// NewFrame creates the row-chunked-dataframe adapter.
func NewFrame(chunkRows int64) *Frame {
	return &Frame{chunkRows: chunkRows}
}

// Name identifies the library in results and logs.
func (fa *Frame) Name() string { return "fraugster" }

// Convert implements the Adapter contract.
func (fa *Frame) Convert(ctx context.Context, datasetID, inputDir, outputDir string) Outcome {
	defer cleanup(outputDir)

	if err := fa.run(ctx, datasetID, inputDir, outputDir); err != nil {
		return fail(fa.Name(), datasetID, err)
	}
	return Outcome{OK: true}
}

func (fa *Frame) run(ctx context.Context, datasetID, inputDir, outputDir string) error {
	in := inputPath(inputDir, datasetID)
	if err := checkInput(in); err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrInputNotFound, err)
	}
	defer f.Close()

	r, err := goparquet.NewFileReader(f)
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
	}

	columns := columnNames(r)
	if len(columns) == 0 {
		return fmt.Errorf("%w: no columns in schema", pqerrors.ErrDecode)
	}

	// Materialize the whole table before any output is written.
	rows := make([]map[string]interface{}, 0, r.NumRows())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := r.NextRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
		}
		rows = append(rows, row)
	}

	out, err := os.Create(outputPath(outputDir, datasetID))
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	w := csv.NewWriter(out)
	if err := w.Write(columns); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	record := make([]string, len(columns))
	for i, row := range rows {
		for c, name := range columns {
			record[c] = formatCell(row[name])
		}
		if err := w.Write(record); err != nil {
			out.Close()
			return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
		}

		// Flush once per chunk rather than per row or once at the end.
		if fa.chunkRows > 0 && int64(i+1)%fa.chunkRows == 0 {
			w.Flush()
			if err := w.Error(); err != nil {
				out.Close()
				return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}
	return nil
}

// columnNames returns the top-level column names in schema order.
func columnNames(r *goparquet.FileReader) []string {
	def := r.GetSchemaDefinition()
	if def == nil || def.RootColumn == nil {
		return nil
	}
	names := make([]string, 0, len(def.RootColumn.Children))
	for _, child := range def.RootColumn.Children {
		names = append(names, child.SchemaElement.Name)
	}
	return names
}
