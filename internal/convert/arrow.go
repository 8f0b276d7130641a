package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

// Arrow is the eager-columnar adapter: it reads the entire input into one
// in-memory Arrow table, then writes it out in a single pass, internally
// batched at BatchRows to bound peak memory during encoding.
type Arrow struct {
	batchRows int64
}

// NewArrow creates the eager-columnar adapter.
func NewArrow(batchRows int64) *Arrow {
	return &Arrow{batchRows: batchRows}
}

// Name identifies the library in results and logs.
func (a *Arrow) Name() string { return "arrow" }

// Convert implements the Adapter contract.
func (a *Arrow) Convert(ctx context.Context, datasetID, inputDir, outputDir string) Outcome {
	defer cleanup(outputDir)

	if err := a.run(ctx, datasetID, inputDir, outputDir); err != nil {
		return fail(a.Name(), datasetID, err)
	}
	return Outcome{OK: true}
}

func (a *Arrow) run(ctx context.Context, datasetID, inputDir, outputDir string) error {
	in := inputPath(inputDir, datasetID)
	if err := checkInput(in); err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	rdr, err := file.OpenParquetFile(in, false)
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr,
		pqarrow.ArrowReadProperties{BatchSize: a.batchRows},
		memory.DefaultAllocator)
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
	}

	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
	}
	defer tbl.Release()

	out, err := os.Create(outputPath(outputDir, datasetID))
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	w := arrowcsv.NewWriter(out, tbl.Schema(), arrowcsv.WithHeader(true))
	tr := array.NewTableReader(tbl, a.batchRows)
	defer tr.Release()

	for tr.Next() {
		if err := w.Write(tr.Record()); err != nil {
			out.Close()
			return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}
	return nil
}
