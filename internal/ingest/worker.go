// Package ingest implements the scheduled pull of job postings from the
// upstream board into the local store, plus the expiry/purge sweep.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"careerhub/jobs-service/internal/jsearch"
	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/normalize"
)

// quotaMargin keeps a few upstream calls in reserve for live user-search
// fills after ingestion has run.
const quotaMargin = 50

// pagesPerQuery is how many upstream result pages one seed query expands to.
const pagesPerQuery = 2

// Fetcher is the upstream adapter.
type Fetcher interface {
	Search(ctx context.Context, query, location string, page, numPages int) ([]jsearch.Job, error)
}

// JobUpserter is the slice of the job store the worker writes to.
type JobUpserter interface {
	UpsertJob(ctx context.Context, job model.IngestedJob) (bool, error)
}

// Quota guards the monthly upstream-call budget.
type Quota interface {
	Increment(ctx context.Context) error
	Used(ctx context.Context) (int, error)
}

// Seed is one (query, location) pair of the ingestion sweep.
type Seed struct {
	Query    string
	Location string
}

// Worker runs the full ingestion cycle: for each seed query × location pair
// it fetches from the upstream, normalizes, and upserts into the store.
// Upstream calls are sequential with an early-exit check against the
// monthly quota; per-pair errors are accumulated, not retried.
type Worker struct {
	fetcher    Fetcher
	jobs       JobUpserter
	quota      Quota
	monthlyCap int
	seeds      []Seed
	log        *slog.Logger
}

// NewWorker constructs a Worker sweeping queries × locations.
func NewWorker(fetcher Fetcher, jobs JobUpserter, quota Quota, monthlyCap int, queries, locations []string, log *slog.Logger) *Worker {
	var seeds []Seed
	for _, q := range queries {
		for _, loc := range locations {
			seeds = append(seeds, Seed{Query: q, Location: loc})
		}
	}
	return &Worker{
		fetcher:    fetcher,
		jobs:       jobs,
		quota:      quota,
		monthlyCap: monthlyCap,
		seeds:      seeds,
		log:        log,
	}
}

// Run executes one ingestion cycle and returns its summary. The summary is
// always non-nil; upstream failures land in Errors rather than aborting the
// sweep.
func (w *Worker) Run(ctx context.Context) *model.IngestSummary {
	summary := &model.IngestSummary{Errors: []string{}}
	start := time.Now()

	for _, seed := range w.seeds {
		if ctx.Err() != nil {
			summary.Errors = append(summary.Errors, ctx.Err().Error())
			break
		}

		used, err := w.quota.Used(ctx)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("quota read: %v", err))
			break
		}
		if used >= w.monthlyCap-quotaMargin {
			w.log.Info("near monthly quota, stopping sweep", "used", used, "cap", w.monthlyCap)
			summary.Skipped += w.remaining(seed)
			break
		}

		results, err := w.fetcher.Search(ctx, seed.Query, seed.Location, 1, pagesPerQuery)
		if err != nil {
			w.log.Warn("fetch failed", "query", seed.Query, "location", seed.Location, "err", err)
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("%s/%s: %v", seed.Query, seed.Location, err))
			continue
		}
		// Best-effort: a failed increment never blocks ingestion.
		if err := w.quota.Increment(ctx); err != nil {
			w.log.Warn("quota increment failed", "err", err)
		}

		for _, raw := range results {
			job := normalize.Job(raw)
			if job.ExternalID == "" {
				summary.Skipped++
				continue
			}
			inserted, err := w.jobs.UpsertJob(ctx, job)
			if err != nil {
				summary.Errors = append(summary.Errors,
					fmt.Sprintf("upsert %s: %v", job.ExternalID, err))
				continue
			}
			if inserted {
				summary.Ingested++
			} else {
				summary.Updated++
			}
		}
	}

	w.log.Info("ingestion cycle done",
		"ingested", summary.Ingested, "updated", summary.Updated,
		"skipped", summary.Skipped, "errors", len(summary.Errors),
		"took", time.Since(start).Round(time.Millisecond))
	return summary
}

// remaining counts the seeds not yet processed, seed included.
func (w *Worker) remaining(seed Seed) int {
	for i, s := range w.seeds {
		if s == seed {
			return len(w.seeds) - i
		}
	}
	return 0
}
