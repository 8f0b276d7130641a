package convert

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

// DuckDB is the in-process-SQL adapter: it opens a transient memory-backed
// DuckDB instance, issues one COPY statement that reads the input and writes
// CSV with a header row, then closes the instance. No intermediate table
// object is exposed to the caller.
type DuckDB struct {
	memoryLimit string
}

// NewDuckDB creates the in-process-SQL adapter. memoryLimit is a DuckDB
// memory_limit value such as "2GB"; empty means the engine default.
func NewDuckDB(memoryLimit string) *DuckDB {
	return &DuckDB{memoryLimit: memoryLimit}
}

// Name identifies the library in results and logs.
func (d *DuckDB) Name() string { return "duckdb" }

// Convert implements the Adapter contract.
func (d *DuckDB) Convert(ctx context.Context, datasetID, inputDir, outputDir string) Outcome {
	defer cleanup(outputDir)

	if err := d.run(ctx, datasetID, inputDir, outputDir); err != nil {
		return fail(d.Name(), datasetID, err)
	}
	return Outcome{OK: true}
}

func (d *DuckDB) run(ctx context.Context, datasetID, inputDir, outputDir string) error {
	in := inputPath(inputDir, datasetID)
	if err := checkInput(in); err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrEncode, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	if d.memoryLimit != "" {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("SET memory_limit='%s'", d.memoryLimit)); err != nil {
			return fmt.Errorf("set memory limit: %w", err)
		}
	}

	stmt := fmt.Sprintf(
		"COPY (SELECT * FROM read_parquet('%s')) TO '%s' WITH (FORMAT csv, HEADER)",
		sqlQuote(in), sqlQuote(outputPath(outputDir, datasetID)))

	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%w: %v", pqerrors.ErrDecode, err)
	}
	return nil
}

// sqlQuote escapes single quotes for a DuckDB string literal. Paths are the
// only interpolated values; COPY targets cannot be bound parameters.
func sqlQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
