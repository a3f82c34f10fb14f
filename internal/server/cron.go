package server

import (
	"net/http"
	"time"

	"careerhub/jobs-service/internal/ingest"
)

// Cron routes accept GET or POST: platform schedulers differ in what they
// can issue.

func cronMethodOK(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodPost
}

// handleCronIngest triggers one upstream ingestion cycle.
func (h *Handler) handleCronIngest(w http.ResponseWriter, r *http.Request) {
	if !cronMethodOK(r) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	summary := h.ingestor.Run(r.Context())
	jsonOK(w, summary)
}

// handleCronCleanup expires stale jobs and purges old expired ones.
func (h *Handler) handleCronCleanup(w http.ResponseWriter, r *http.Request) {
	if !cronMethodOK(r) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	summary, err := ingest.Cleanup(r.Context(), h.jobs, h.staleAfter, h.retention)
	if err != nil {
		h.log.Error("cleanup failed", "err", err)
		jsonError(w, "cleanup failed", http.StatusInternalServerError)
		return
	}
	jsonOK(w, summary)
}

// handleCronPrewarm fills the cache for the common-query list.
func (h *Handler) handleCronPrewarm(w http.ResponseWriter, r *http.Request) {
	if !cronMethodOK(r) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	summary, err := h.search.Prewarm(r.Context())
	if err != nil {
		h.log.Error("prewarm failed", "err", err)
		jsonError(w, "prewarm failed", http.StatusInternalServerError)
		return
	}
	jsonOK(w, summary)
}

// handleCronAlerts runs one alert-dispatch cycle.
func (h *Handler) handleCronAlerts(w http.ResponseWriter, r *http.Request) {
	if !cronMethodOK(r) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	summary := h.dispatcher.Run(r.Context(), time.Now().UTC())
	jsonOK(w, summary)
}
