package manifest

import (
	"os"
	"path/filepath"
	"testing"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted_files.csv")

	in := []Entry{
		{RowCount: 100, Filename: "taxi_data_2024-0104_100.parquet"},
		{RowCount: 1000, Filename: "taxi_data_2024-0104_1000.parquet"},
	}

	if err := Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("expected %d entries, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted_files.csv")

	if err := Write(path, []Entry{{RowCount: 1, Filename: "a.parquet"}, {RowCount: 2, Filename: "b.parquet"}}); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, []Entry{{RowCount: 3, Filename: "c.parquet"}}); err != nil {
		t.Fatal(err)
	}

	out, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Filename != "c.parquet" {
		t.Errorf("expected overwritten manifest, got %+v", out)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.csv"))
	if !pqerrors.Is(err, pqerrors.ErrManifestNotFound) {
		t.Errorf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestReadMalformed(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"no_header.csv":  "100,foo.parquet\n",
		"bad_count.csv":  "row_count,filename\nten,foo.parquet\n",
		"neg_count.csv":  "row_count,filename\n-5,foo.parquet\n",
		"empty_name.csv": "row_count,filename\n100,\n",
	}

	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Read(path); !pqerrors.Is(err, pqerrors.ErrManifestFormat) {
			t.Errorf("%s: expected ErrManifestFormat, got %v", name, err)
		}
	}
}

func TestDatasetID(t *testing.T) {
	e := Entry{RowCount: 100, Filename: "taxi_data_2024-0104_100.parquet"}
	if got := e.DatasetID(); got != "taxi_data_2024-0104_100" {
		t.Errorf("got %q", got)
	}

	e = Entry{RowCount: 1, Filename: "noext"}
	if got := e.DatasetID(); got != "noext" {
		t.Errorf("got %q", got)
	}
}
