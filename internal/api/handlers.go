package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/folio/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetData handles GET /api/data.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Data(r.Context())
	if err != nil {
		slog.Error("get data failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorBody("portfolio data unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ListProjects handles GET /api/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Data(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("portfolio data unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": data.Projects,
		"total":    len(data.Projects),
	})
}

// GetProject handles GET /api/projects/{slug}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, err := h.svc.Project(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("portfolio data unavailable"))
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListPosts handles GET /api/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Data(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("portfolio data unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts": data.Posts,
		"total": len(data.Posts),
	})
}

// GetPost handles GET /api/posts/{slug}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, err := h.svc.Post(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("portfolio data unavailable"))
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// TriggerSync handles POST /api/sync. The webhook caller owns retry
// policy: a rate-limited upstream is reported as 429 so the scheduler
// can back off.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	incremental := r.URL.Query().Get("mode") == "incremental"
	result, err := h.svc.TriggerSync(r.Context(), incremental)
	if err != nil {
		if errors.Is(err, apperr.ErrRateLimited) {
			writeJSON(w, http.StatusTooManyRequests, errorBody("upstream rate limited"))
			return
		}
		slog.Error("sync trigger failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("sync failed"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SyncStatus handles GET /api/sync/status.
func (h *Handler) SyncStatus(w http.ResponseWriter, _ *http.Request) {
	run, err := h.svc.LastRun()
	if err != nil {
		slog.Error("sync status failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if run == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "never-run"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}
