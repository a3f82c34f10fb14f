// Package server implements the HTTP surface of the jobs service.
//
// Routes:
//
//	GET  /health
//	GET  /api/jobs/search                  → cache-backed job search
//	POST /api/alerts/subscribe             → create alert subscriber
//	POST /api/alerts/unsubscribe?token=…   → terminal unsubscribe (GET allowed for mail links)
//	*    /internal/cron/{ingest,cleanup,prewarm,alerts}  → Bearer CRON_SECRET
//	*    /api/admin/jobs[/{id}]            → Bearer ADMIN_TOKEN, CRUD + cache bust
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"careerhub/jobs-service/internal/alerts"
	"careerhub/jobs-service/internal/ingest"
	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/store"
)

// SearchService is the search pipeline slice the handlers need.
type SearchService interface {
	Search(ctx context.Context, params model.SearchParams) (*model.SearchPage, error)
	Prewarm(ctx context.Context) (*model.PrewarmSummary, error)
	InvalidateAll(ctx context.Context) (int, error)
}

// IngestRunner runs one ingestion cycle.
type IngestRunner interface {
	Run(ctx context.Context) *model.IngestSummary
}

// DispatchRunner runs one alert-dispatch cycle.
type DispatchRunner interface {
	Run(ctx context.Context, now time.Time) *model.DispatchSummary
}

// AlertService owns the subscriber lifecycle.
type AlertService interface {
	Subscribe(ctx context.Context, req alerts.SubscribeRequest) (*model.AlertSubscriber, error)
	Unsubscribe(ctx context.Context, token string) error
}

// Handler holds shared dependencies for all routes.
type Handler struct {
	search     SearchService
	ingestor   IngestRunner
	dispatcher DispatchRunner
	alerts     AlertService
	adminJobs  store.AdminJobStore
	jobs       ingest.Expirer

	staleAfter time.Duration
	retention  time.Duration
	cronSecret string
	adminToken string
	log        *slog.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(
	search SearchService,
	ingestor IngestRunner,
	dispatcher DispatchRunner,
	alertSvc AlertService,
	adminJobs store.AdminJobStore,
	jobs ingest.Expirer,
	staleAfter, retention time.Duration,
	cronSecret, adminToken string,
	log *slog.Logger,
) *Handler {
	return &Handler{
		search:     search,
		ingestor:   ingestor,
		dispatcher: dispatcher,
		alerts:     alertSvc,
		adminJobs:  adminJobs,
		jobs:       jobs,
		staleAfter: staleAfter,
		retention:  retention,
		cronSecret: cronSecret,
		adminToken: adminToken,
		log:        log,
	}
}

// RegisterRoutes mounts all routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/api/jobs/search", h.handleSearch)
	mux.HandleFunc("/api/alerts/subscribe", h.handleSubscribe)
	mux.HandleFunc("/api/alerts/unsubscribe", h.handleUnsubscribe)

	mux.HandleFunc("/internal/cron/ingest", h.requireBearer(h.cronSecret, h.handleCronIngest))
	mux.HandleFunc("/internal/cron/cleanup", h.requireBearer(h.cronSecret, h.handleCronCleanup))
	mux.HandleFunc("/internal/cron/prewarm", h.requireBearer(h.cronSecret, h.handleCronPrewarm))
	mux.HandleFunc("/internal/cron/alerts", h.requireBearer(h.cronSecret, h.handleCronAlerts))

	mux.HandleFunc("/api/admin/jobs", h.requireBearer(h.adminToken, h.handleAdminJobs))
	mux.HandleFunc("/api/admin/jobs/", h.requireBearer(h.adminToken, h.handleAdminJobByID))
}

// requireBearer rejects requests lacking the expected bearer token.
func (h *Handler) requireBearer(token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			jsonError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": "jobs-service",
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
