// Package scheduler wires up the cron jobs that drive ingestion, cleanup,
// cache prewarm and alert dispatch. The cron HTTP endpoints call the same
// runners, so platform cron and in-process cron share one code path.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"careerhub/jobs-service/internal/model"
)

// Ingestor runs one ingestion cycle.
type Ingestor interface {
	Run(ctx context.Context) *model.IngestSummary
}

// Prewarmer fills the search cache for common queries.
type Prewarmer interface {
	Prewarm(ctx context.Context) (*model.PrewarmSummary, error)
}

// Dispatcher runs one alert-dispatch cycle.
type Dispatcher interface {
	Run(ctx context.Context, now time.Time) *model.DispatchSummary
}

// CleanupFunc performs the expire/purge sweep.
type CleanupFunc func(ctx context.Context) (*model.CleanupSummary, error)

// Scheduler wraps robfig/cron and manages the periodic jobs.
type Scheduler struct {
	cron       *cron.Cron
	ingestor   Ingestor
	prewarmer  Prewarmer
	dispatcher Dispatcher
	cleanup    CleanupFunc
	ingestSpec string
}

// New creates a Scheduler whose ingestion fires every intervalHours hours.
// Cleanup and alert dispatch run daily, prewarm every six hours.
func New(ingestor Ingestor, prewarmer Prewarmer, dispatcher Dispatcher, cleanup CleanupFunc, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		ingestor:   ingestor,
		prewarmer:  prewarmer,
		dispatcher: dispatcher,
		cleanup:    cleanup,
		ingestSpec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the jobs and starts the scheduler. Also runs one
// ingestion immediately so the store is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		spec string
		run  func()
	}{
		{s.ingestSpec, func() { s.runIngest(ctx) }},
		{"@daily", func() { s.runCleanup(ctx) }},
		{"@every 6h", func() { s.runPrewarm(ctx) }},
		{"@daily", func() { s.runDispatch(ctx) }},
	}
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return fmt.Errorf("cron.AddFunc(%s): %w", j.spec, err)
		}
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — ingest spec: %s", s.ingestSpec)

	// Run immediately on startup (non-blocking)
	go func() {
		s.runIngest(ctx)
		s.runPrewarm(ctx)
	}()

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runIngest(ctx context.Context) {
	log.Println("[scheduler] Ingestion cycle started")
	summary := s.ingestor.Run(ctx)
	log.Printf("[scheduler] Ingestion done — ingested=%d updated=%d errors=%d",
		summary.Ingested, summary.Updated, len(summary.Errors))
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	summary, err := s.cleanup(ctx)
	if err != nil {
		log.Printf("[scheduler] Cleanup error: %v", err)
		return
	}
	log.Printf("[scheduler] Cleanup done — expired=%d purged=%d", summary.Expired, summary.Purged)
}

func (s *Scheduler) runPrewarm(ctx context.Context) {
	summary, err := s.prewarmer.Prewarm(ctx)
	if err != nil {
		log.Printf("[scheduler] Prewarm error: %v", err)
		return
	}
	log.Printf("[scheduler] Prewarm done — cached=%d skipped=%d", summary.Cached, summary.Skipped)
}

func (s *Scheduler) runDispatch(ctx context.Context) {
	summary := s.dispatcher.Run(ctx, time.Now().UTC())
	log.Printf("[scheduler] Alert dispatch done — notified=%d skipped=%d errors=%d",
		summary.Notified, summary.Skipped, len(summary.Errors))
}
