package config

import (
	"os"
	"path/filepath"
	"testing"

	pqerrors "github.com/pqbench/pqbench/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Extract.BaseURL == "" {
		t.Error("expected default base_url")
	}

	if cfg.Extract.MonthStart < 1 || cfg.Extract.MonthStop > 12 {
		t.Error("expected default month range within 1..12")
	}

	if len(cfg.Sample.Sizes) == 0 {
		t.Error("expected default sample sizes")
	}

	if cfg.Sample.Seed == 0 {
		t.Error("expected a fixed default sample seed")
	}

	if cfg.Run.BatchRows <= 0 {
		t.Error("expected positive default batch_rows")
	}

	if cfg.Run.Repetitions < 1 {
		t.Error("expected default repetitions >= 1")
	}
}

func TestConfigValidate(t *testing.T) {
	// Valid config
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	// Invalid: month out of domain
	cfg = DefaultConfig()
	cfg.Extract.MonthStart = 0
	if err := cfg.Validate(); !pqerrors.Is(err, pqerrors.ErrInvalidMonthRange) {
		t.Errorf("expected month range error, got %v", err)
	}

	// Invalid: month 13
	cfg = DefaultConfig()
	cfg.Extract.MonthStop = 13
	if err := cfg.Validate(); !pqerrors.Is(err, pqerrors.ErrInvalidMonthRange) {
		t.Errorf("expected month range error, got %v", err)
	}

	// Invalid: inverted range
	cfg = DefaultConfig()
	cfg.Extract.MonthStart = 5
	cfg.Extract.MonthStop = 3
	if err := cfg.Validate(); !pqerrors.Is(err, pqerrors.ErrInvertedRange) {
		t.Errorf("expected inverted range error, got %v", err)
	}

	// Invalid: non-positive sample size
	cfg = DefaultConfig()
	cfg.Sample.Sizes = []int64{100, 0}
	if err := cfg.Validate(); !pqerrors.Is(err, pqerrors.ErrInvalidSampleSize) {
		t.Errorf("expected sample size error, got %v", err)
	}

	// Invalid: zero repetitions
	cfg = DefaultConfig()
	cfg.Run.Repetitions = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero repetitions")
	}

	// Invalid: non-positive batch rows
	cfg = DefaultConfig()
	cfg.Run.BatchRows = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero batch_rows")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
extract:
  month_start: 2
  month_stop: 3
sample:
  sizes: [10, 20]
  seed: 42
run:
  repetitions: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Extract.MonthStart != 2 || cfg.Extract.MonthStop != 3 {
		t.Errorf("month range not applied: %+v", cfg.Extract)
	}
	if len(cfg.Sample.Sizes) != 2 || cfg.Sample.Sizes[0] != 10 {
		t.Errorf("sizes not applied: %v", cfg.Sample.Sizes)
	}
	if cfg.Sample.Seed != 42 {
		t.Errorf("seed not applied: %d", cfg.Sample.Seed)
	}
	if cfg.Run.Repetitions != 3 {
		t.Errorf("repetitions not applied: %d", cfg.Run.Repetitions)
	}

	// Defaults survive partial overrides
	if cfg.Run.BatchRows <= 0 {
		t.Error("expected default batch_rows to survive")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
extract:
  month_start: 7
  month_stop: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for inverted month range")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Error("expected directory to exist")
	}
}
