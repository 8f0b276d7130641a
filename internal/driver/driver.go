// Package driver builds, shuffles, and times the experiment's job list.
//
// Execution is strictly sequential and single-threaded by design: the
// experiment's validity depends on no two conversions competing for CPU,
// memory bandwidth, or disk I/O at the same time. The shuffle exists to keep
// disk-cache warmup and thermal throttling from correlating with a monotonic
// size ordering; it is a measurement-validity requirement, not a performance
// one.
package driver

import (
	"context"
	"math/rand"
	"time"

	"github.com/pqbench/pqbench/internal/convert"
	"github.com/pqbench/pqbench/internal/logging"
	"github.com/pqbench/pqbench/internal/manifest"
	"github.com/pqbench/pqbench/internal/results"
)

var log = logging.Component("driver")

// Job is one (adapter, dataset) execution unit whose wall-clock time is
// measured. Transient; never persisted.
type Job struct {
	Adapter   convert.Adapter
	DatasetID string
	RowCount  int64
}

// Params configures one experiment run.
type Params struct {
	// InputDir holds the sample Parquet files named by the manifest.
	InputDir string

	// OutputDir is the transient CSV directory each job claims exclusively.
	OutputDir string
}

// BuildJobs returns the full cross product of manifest entries and adapters,
// repeated Repetitions times, in deterministic pre-shuffle order.
func BuildJobs(entries []manifest.Entry, adapters []convert.Adapter, repetitions int) []Job {
	if repetitions < 1 {
		repetitions = 1
	}

	jobs := make([]Job, 0, len(entries)*len(adapters)*repetitions)
	for rep := 0; rep < repetitions; rep++ {
		for _, e := range entries {
			for _, a := range adapters {
				jobs = append(jobs, Job{
					Adapter:   a,
					DatasetID: e.DatasetID(),
					RowCount:  e.RowCount,
				})
			}
		}
	}
	return jobs
}

// ShuffleJobs shuffles the job list in place, once. A zero seed draws from
// the clock; a fixed seed gives a repeatable order.
func ShuffleJobs(jobs []Job, seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(jobs), func(i, j int) {
		jobs[i], jobs[j] = jobs[j], jobs[i]
	})
}

// Run executes every job sequentially and returns one record per job, in
// execution order. A failed conversion yields a failure record; it never
// aborts the run. len(result) always equals len(jobs).
func Run(ctx context.Context, jobs []Job, p Params) []results.Record {
	records := make([]results.Record, 0, len(jobs))

	for i, job := range jobs {
		log.Info("job start",
			"library", job.Adapter.Name(),
			"rows", job.RowCount,
			"job", i+1,
			"of", len(jobs))

		start := time.Now()
		outcome := job.Adapter.Convert(ctx, job.DatasetID, p.InputDir, p.OutputDir)
		elapsed := time.Since(start)

		rec := results.Record{
			Library:  job.Adapter.Name(),
			RowCount: job.RowCount,
		}
		if outcome.OK {
			rec.Elapsed = elapsed
			log.Info("job done",
				"library", job.Adapter.Name(),
				"rows", job.RowCount,
				"elapsed", elapsed)
		} else {
			rec.Failed = true
			rec.Reason = outcome.Kind.String()
			log.Warn("job failed",
				"library", job.Adapter.Name(),
				"rows", job.RowCount,
				"kind", rec.Reason)
		}
		records = append(records, rec)
	}

	return records
}
