package convert

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

// streamReadRows is the row batch size for the streaming read loop.
const streamReadRows = 4096

// Stream is the lazy-streaming adapter: it never materializes the full table.
// Row batches are pulled from the Parquet row groups and driven through a
// partitioned sink that caps each output part at PartRows rows, producing
// multiple CSV files under a per-dataset subdirectory.
type Stream struct {
	partRows int64
}

// NewStream creates the lazy-streaming adapter.
func NewStream(partRows int64) *Stream {
	return &Stream{partRows: partRows}
}

// Name identifies the library in results and logs.
func (s *Stream) Name() string { return "parquet-go" }

// Convert implements the Adapter contract.
func (s *Stream) Convert(ctx context.Context, datasetID, inputDir, outputDir string) Outcome {
	defer cleanup(outputDir)

	if err := s.run(ctx, datasetID, inputDir, outputDir); err != nil {
		return fail(s.Name(), datasetID, err)
	}
	return Outcome{OK: true}
}

func (s *Stream) run(ctx context.Context, datasetID, inputDir, outputDir string) error {
	in := inputPath(inputDir, datasetID)
	if err := checkInput(in); err != nil {
		return err
	}

	partDir := filepath.Join(outputDir, datasetID)
	if err := os.MkdirAll(partDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrInputNotFound, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
	}

	header := make([]string, len(pf.Schema().Fields()))
	for i, field := range pf.Schema().Fields() {
		header[i] = field.Name()
	}

	sink := newPartSink(partDir, header, s.partRows)
	defer sink.close()

	buf := make([]parquet.Row, streamReadRows)
	record := make([]string, len(header))

	for _, rg := range pf.RowGroups() {
		rr := rg.Rows()
		for {
			if err := ctx.Err(); err != nil {
				rr.Close()
				return err
			}

			n, readErr := rr.ReadRows(buf)
			for i := 0; i < n; i++ {
				for c := range record {
					record[c] = ""
				}
				for _, v := range buf[i] {
					if c := v.Column(); c >= 0 && c < len(record) {
						record[c] = formatValue(v)
					}
				}
				if err := sink.write(record); err != nil {
					rr.Close()
					return err
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				rr.Close()
				return fmt.Errorf("%w: %v", pqerrors.ErrDecode, readErr)
			}
			if n == 0 {
				break
			}
		}
		if err := rr.Close(); err != nil {
			return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
		}
	}

	return sink.close()
}

// partSink writes CSV records across size-capped part files.
type partSink struct {
	dir      string
	header   []string
	maxRows  int64
	partIdx  int
	rows     int64
	file     *os.File
	writer   *csv.Writer
	closed   bool
	closeErr error
}

func newPartSink(dir string, header []string, maxRows int64) *partSink {
	return &partSink{dir: dir, header: header, maxRows: maxRows}
}

func (p *partSink) write(record []string) error {
	if p.writer == nil || p.rows >= p.maxRows {
		if err := p.rotate(); err != nil {
			return err
		}
	}
	if err := p.writer.Write(record); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}
	p.rows++
	return nil
}

// rotate closes the current part and opens the next one, writing the header.
func (p *partSink) rotate() error {
	if err := p.flushCurrent(); err != nil {
		return err
	}

	name := fmt.Sprintf("part-%05d.csv", p.partIdx)
	f, err := os.Create(filepath.Join(p.dir, name))
	if err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(p.header); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	p.file = f
	p.writer = w
	p.partIdx++
	p.rows = 0
	return nil
}

func (p *partSink) flushCurrent() error {
	if p.writer == nil {
		return nil
	}
	p.writer.Flush()
	if err := p.writer.Error(); err != nil {
		p.file.Close()
		p.writer = nil
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}
	if err := p.file.Close(); err != nil {
		p.writer = nil
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}
	p.writer = nil
	p.file = nil
	return nil
}

// close flushes and closes the open part. Safe to call more than once.
func (p *partSink) close() error {
	if p.closed {
		return p.closeErr
	}
	p.closed = true
	p.closeErr = p.flushCurrent()
	return p.closeErr
}
