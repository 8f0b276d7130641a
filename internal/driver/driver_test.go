package driver

import (
	"context"
	"fmt"
	"testing"

	"github.com/pqbench/pqbench/internal/convert"
	pqerrors "github.com/pqbench/pqbench/internal/errors"
	"github.com/pqbench/pqbench/internal/manifest"
)

// stubAdapter records invocations and fails on demand.
type stubAdapter struct {
	name   string
	failOn map[string]bool
	calls  []string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Convert(_ context.Context, datasetID, _, _ string) convert.Outcome {
	s.calls = append(s.calls, datasetID)
	if s.failOn[datasetID] {
		return convert.Outcome{
			Kind: pqerrors.KindFileNotFound,
			Err:  fmt.Errorf("%s: %w", datasetID, pqerrors.ErrInputNotFound),
		}
	}
	return convert.Outcome{OK: true}
}

func entries(sizes ...int64) []manifest.Entry {
	out := make([]manifest.Entry, len(sizes))
	for i, n := range sizes {
		out[i] = manifest.Entry{RowCount: n, Filename: fmt.Sprintf("ds_%d.parquet", n)}
	}
	return out
}

func TestBuildJobsCompleteness(t *testing.T) {
	a := &stubAdapter{name: "A"}
	b := &stubAdapter{name: "B"}
	c := &stubAdapter{name: "C"}

	jobs := BuildJobs(entries(100, 1000, 10000), []convert.Adapter{a, b, c}, 1)
	if len(jobs) != 9 {
		t.Errorf("expected 3x3 jobs, got %d", len(jobs))
	}

	jobs = BuildJobs(entries(100, 1000), []convert.Adapter{a, b}, 3)
	if len(jobs) != 12 {
		t.Errorf("expected 2x2x3 jobs, got %d", len(jobs))
	}

	// Repetitions below 1 clamp to 1
	jobs = BuildJobs(entries(100), []convert.Adapter{a}, 0)
	if len(jobs) != 1 {
		t.Errorf("expected 1 job, got %d", len(jobs))
	}
}

func TestShuffleJobsPreservesIdentity(t *testing.T) {
	a := &stubAdapter{name: "A"}
	b := &stubAdapter{name: "B"}

	jobs := BuildJobs(entries(100, 1000, 10000), []convert.Adapter{a, b}, 2)

	count := func(jobs []Job) map[string]int {
		m := map[string]int{}
		for _, j := range jobs {
			m[fmt.Sprintf("%s/%d", j.Adapter.Name(), j.RowCount)]++
		}
		return m
	}
	before := count(jobs)

	ShuffleJobs(jobs, 7)

	after := count(jobs)
	if len(jobs) != 12 {
		t.Errorf("shuffle changed job count: %d", len(jobs))
	}
	for k, v := range before {
		if after[k] != v {
			t.Errorf("pair %s: count changed %d -> %d", k, v, after[k])
		}
	}
}

func TestShuffleJobsSeeded(t *testing.T) {
	a := &stubAdapter{name: "A"}
	b := &stubAdapter{name: "B"}

	j1 := BuildJobs(entries(100, 1000, 10000), []convert.Adapter{a, b}, 1)
	j2 := BuildJobs(entries(100, 1000, 10000), []convert.Adapter{a, b}, 1)

	ShuffleJobs(j1, 42)
	ShuffleJobs(j2, 42)

	for i := range j1 {
		if j1[i].DatasetID != j2[i].DatasetID || j1[i].Adapter.Name() != j2[i].Adapter.Name() {
			t.Fatalf("seeded shuffle not repeatable at index %d", i)
		}
	}
}

func TestRunNonPropagation(t *testing.T) {
	a := &stubAdapter{name: "A", failOn: map[string]bool{"ds_100": true}}
	b := &stubAdapter{name: "B"}

	jobs := BuildJobs(entries(100, 1000), []convert.Adapter{a, b}, 1)
	records := Run(context.Background(), jobs, Params{InputDir: "in", OutputDir: "out"})

	// One record per planned job, failures included
	if len(records) != len(jobs) {
		t.Fatalf("expected %d records, got %d", len(jobs), len(records))
	}

	failed := 0
	for _, r := range records {
		if r.Failed {
			failed++
			if r.Reason != "FileNotFound" {
				t.Errorf("expected FileNotFound reason, got %q", r.Reason)
			}
			if r.Elapsed != 0 {
				t.Errorf("failed record carries a timing: %v", r.Elapsed)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failed record, got %d", failed)
	}

	// Subsequent jobs still executed: every adapter saw both datasets
	if len(a.calls) != 2 || len(b.calls) != 2 {
		t.Errorf("expected all jobs executed, calls A=%d B=%d", len(a.calls), len(b.calls))
	}
}

func TestRunEndToEndScenario(t *testing.T) {
	a := &stubAdapter{name: "A"}
	b := &stubAdapter{name: "B"}

	jobs := BuildJobs(entries(100, 1000), []convert.Adapter{a, b}, 1)
	ShuffleJobs(jobs, 99)
	records := Run(context.Background(), jobs, Params{InputDir: "in", OutputDir: "out"})

	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	seen := map[string]int{}
	for _, r := range records {
		if r.RowCount != 100 && r.RowCount != 1000 {
			t.Errorf("unexpected row count %d", r.RowCount)
		}
		if r.Library != "A" && r.Library != "B" {
			t.Errorf("unexpected library %q", r.Library)
		}
		seen[fmt.Sprintf("%s/%d", r.Library, r.RowCount)]++
	}

	for _, k := range []string{"A/100", "A/1000", "B/100", "B/1000"} {
		if seen[k] != 1 {
			t.Errorf("combination %s seen %d times, want exactly once", k, seen[k])
		}
	}
}
