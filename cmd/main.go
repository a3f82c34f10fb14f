package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerhub/jobs-service/internal/alerts"
	"careerhub/jobs-service/internal/cache"
	"careerhub/jobs-service/internal/config"
	"careerhub/jobs-service/internal/db"
	"careerhub/jobs-service/internal/ingest"
	"careerhub/jobs-service/internal/jsearch"
	"careerhub/jobs-service/internal/mailer"
	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/scheduler"
	"careerhub/jobs-service/internal/search"
	"careerhub/jobs-service/internal/server"
	"careerhub/jobs-service/internal/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[jobs-service] Config error: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// ─── Storage ───
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[jobs-service] Postgres error: %v", err)
	}
	defer pool.Close()

	pg, err := store.NewPostgres(ctx, pool)
	if err != nil {
		log.Fatalf("[jobs-service] Schema error: %v", err)
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[jobs-service] Redis error: %v", err)
	}
	defer rdb.Close()

	jobCache := cache.New(rdb, cfg.CacheTTL)

	// ─── Services ───
	upstream := jsearch.NewClient(cfg.JSearchAPIKey, cfg.JSearchAPIHost)

	searchSvc := search.New(
		jobCache, pg, upstream, pg,
		cfg.MonthlyQuota,
		prewarmPairs(cfg.SeedQueries, cfg.SeedLocations),
		cfg.PrewarmCooldown,
		logger,
	)

	worker := ingest.NewWorker(upstream, pg, pg, cfg.MonthlyQuota, cfg.SeedQueries, cfg.SeedLocations, logger)

	alertMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.BaseURL, logger)
	alertSvc := alerts.NewService(pg, logger)
	dispatcher := alerts.NewDispatcher(pg, searchSvc, alertMailer, logger)

	cleanup := func(ctx context.Context) (*model.CleanupSummary, error) {
		return ingest.Cleanup(ctx, pg, cfg.StaleAfter, cfg.Retention)
	}

	// ─── Scheduler ───
	sched := scheduler.New(worker, searchSvc, dispatcher, cleanup, cfg.IngestIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[jobs-service] Scheduler error: %v", err)
	}
	defer sched.Stop()

	// ─── HTTP server ───
	handler := server.NewHandler(
		searchSvc, worker, dispatcher, alertSvc, pg, pg,
		cfg.StaleAfter, cfg.Retention,
		cfg.CronSecret, cfg.AdminToken,
		logger,
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[jobs-service] Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[jobs-service] Server error: %v", err)
		}
	}()

	// ─── Graceful shutdown ───
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("[jobs-service] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[jobs-service] Shutdown error: %v", err)
	}
	log.Println("[jobs-service] Stopped")
}

// prewarmPairs expands the seed lists into the (query, location) grid the
// prewarm pass fills.
func prewarmPairs(queries, locations []string) []search.QueryPair {
	pairs := make([]search.QueryPair, 0, len(queries)*len(locations))
	for _, q := range queries {
		for _, l := range locations {
			pairs = append(pairs, search.QueryPair{Query: q, Location: l})
		}
	}
	return pairs
}
