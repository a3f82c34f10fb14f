package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"careerhub/jobs-service/internal/alerts"
	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/store"
)

// handleSearch handles GET /api/jobs/search.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	page := 1
	if s := q.Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			page = v
		}
	}

	params := model.SearchParams{
		Query:          q.Get("query"),
		Location:       q.Get("location"),
		Page:           page,
		RemoteOnly:     q.Get("remote") == "true",
		EmploymentType: q.Get("employment_type"),
	}

	result, err := h.search.Search(r.Context(), params)
	if err != nil {
		h.log.Error("search failed", "query", params.Query, "err", err)
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}
	jsonOK(w, result)
}

// handleSubscribe handles POST /api/alerts/subscribe.
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req alerts.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sub, err := h.alerts.Subscribe(r.Context(), req)
	if err != nil {
		var ve *alerts.ValidationError
		if errors.As(err, &ve) {
			jsonError(w, ve.Msg, http.StatusBadRequest)
			return
		}
		h.log.Error("subscribe failed", "err", err)
		jsonError(w, "could not create subscription", http.StatusInternalServerError)
		return
	}
	jsonOK(w, sub)
}

// handleUnsubscribe handles POST /api/alerts/unsubscribe?token=…
// GET is also accepted so the link in alert mail works directly.
func (h *Handler) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	err := h.alerts.Unsubscribe(r.Context(), token)
	switch {
	case err == nil:
		jsonOK(w, map[string]any{"success": true, "unsubscribed": true})
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "unknown unsubscribe token", http.StatusNotFound)
	default:
		var ve *alerts.ValidationError
		if errors.As(err, &ve) {
			jsonError(w, ve.Msg, http.StatusBadRequest)
			return
		}
		h.log.Error("unsubscribe failed", "err", err)
		jsonError(w, "could not unsubscribe", http.StatusInternalServerError)
	}
}
