// Package convert wraps each benchmarked library's Parquet-to-CSV routine
// behind a uniform adapter contract.
//
// Adapters never propagate errors to the caller: every failure is classified
// into the uniform taxonomy (FileNotFound, DecodeError, EncodeError,
// UnknownFailure), logged with the dataset identifier and library name, and
// returned as a non-throwing outcome. The output directory is removed after
// every conversion, success or failure; the harness measures conversion cost
// only, not storage.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/pqbench/pqbench/config"
	pqerrors "github.com/pqbench/pqbench/internal/errors"
	"github.com/pqbench/pqbench/internal/logging"
)

var log = logging.Component("convert")

// Outcome is the non-throwing result of one conversion.
type Outcome struct {
	// OK reports whether the conversion succeeded.
	OK bool

	// Kind classifies the failure when OK is false.
	Kind pqerrors.Kind

	// Err is the underlying cause when OK is false.
	Err error
}

// Adapter converts one Parquet dataset to CSV using a single library.
type Adapter interface {
	// Name identifies the library in results and logs.
	Name() string

	// Convert locates {inputDir}/{datasetID}.parquet, writes CSV under
	// outputDir, and removes outputDir afterward regardless of outcome.
	Convert(ctx context.Context, datasetID, inputDir, outputDir string) Outcome
}

// Options carries the per-library tuning knobs.
type Options struct {
	// BatchRows bounds rows per write batch for the eager adapters and rows
	// per output part for the streaming adapter.
	BatchRows int64

	// MemoryLimit caps DuckDB memory. Empty means the engine default.
	MemoryLimit string
}

// All returns the four adapters in a stable order.
func All(opts Options) []Adapter {
	if opts.BatchRows <= 0 {
		opts.BatchRows = config.DefaultBatchRows
	}
	return []Adapter{
		NewArrow(opts.BatchRows),
		NewStream(opts.BatchRows),
		NewFrame(opts.BatchRows),
		NewDuckDB(opts.MemoryLimit),
	}
}

// inputPath returns the Parquet input path for a dataset.
func inputPath(inputDir, datasetID string) string {
	return filepath.Join(inputDir, datasetID+".parquet")
}

// outputPath returns the single-file CSV output path for a dataset.
func outputPath(outputDir, datasetID string) string {
	return filepath.Join(outputDir, datasetID+".csv")
}

// checkInput stats the input file so a missing dataset classifies as
// FileNotFound rather than whatever the library reports.
func checkInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrInputNotFound, err)
	}
	return nil
}

// cleanup removes the output directory. Best-effort: a cleanup failure must
// not mask the conversion outcome already recorded.
func cleanup(outputDir string) {
	if err := os.RemoveAll(outputDir); err != nil {
		log.Warn("cleanup failed", "dir", outputDir, "error", err)
	}
}

// fail logs and classifies a conversion failure.
func fail(library, datasetID string, err error) Outcome {
	kind := pqerrors.Classify(err)
	log.Error("conversion failed",
		"library", library,
		"dataset", datasetID,
		"kind", kind.String(),
		"error", err)
	return Outcome{Kind: kind, Err: err}
}

// formatValue renders one parquet-go leaf value as a CSV cell.
func formatValue(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

// formatCell renders one fraugster row value as a CSV cell.
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
