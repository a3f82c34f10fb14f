package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/store"
)

// handleAdminJobs handles GET (list) and POST (create) on /api/admin/jobs.
func (h *Handler) handleAdminJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs, err := h.adminJobs.ListAdminJobs(r.Context())
		if err != nil {
			h.log.Error("list admin jobs failed", "err", err)
			jsonError(w, "database error", http.StatusInternalServerError)
			return
		}
		jsonOK(w, jobs)
	case http.MethodPost:
		h.createAdminJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAdminJobByID handles GET/PUT/DELETE on /api/admin/jobs/{id}.
func (h *Handler) handleAdminJobByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/jobs/")
	if id == "" || strings.Contains(id, "/") {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		job, err := h.adminJobs.GetAdminJob(r.Context(), id)
		if err != nil {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		jsonOK(w, job)
	case http.MethodPut:
		h.updateAdminJob(w, r, id)
	case http.MethodDelete:
		h.deleteAdminJob(w, r, id)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) createAdminJob(w http.ResponseWriter, r *http.Request) {
	job, ok := decodeAdminJob(w, r)
	if !ok {
		return
	}

	if err := h.adminJobs.CreateAdminJob(r.Context(), job); err != nil {
		h.log.Error("create admin job failed", "err", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	h.bustCache(r)
	jsonOK(w, job)
}

func (h *Handler) updateAdminJob(w http.ResponseWriter, r *http.Request, id string) {
	job, ok := decodeAdminJob(w, r)
	if !ok {
		return
	}
	job.ID = id

	if err := h.adminJobs.UpdateAdminJob(r.Context(), job); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		h.log.Error("update admin job failed", "id", id, "err", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	h.bustCache(r)
	jsonOK(w, job)
}

func (h *Handler) deleteAdminJob(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.adminJobs.DeleteAdminJob(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		h.log.Error("delete admin job failed", "id", id, "err", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	h.bustCache(r)
	jsonOK(w, map[string]any{"success": true, "deleted": id})
}

// decodeAdminJob parses and validates the request body, writing the error
// response itself when validation fails.
func decodeAdminJob(w http.ResponseWriter, r *http.Request) (*model.AdminJob, bool) {
	var job model.AdminJob
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return nil, false
	}
	if strings.TrimSpace(job.Title) == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return nil, false
	}
	if job.EmploymentType == "" {
		job.EmploymentType = model.EmploymentFullTime
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = model.ExperienceMid
	}
	return &job, true
}

// bustCache drops every cached search page after an admin mutation.
// Blunt prefix invalidation, not a targeted one.
func (h *Handler) bustCache(r *http.Request) {
	n, err := h.search.InvalidateAll(r.Context())
	if err != nil {
		h.log.Warn("cache invalidation failed", "err", err)
		return
	}
	h.log.Info("search cache invalidated", "entries", n)
}
