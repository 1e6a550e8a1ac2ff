package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted. Read
// endpoints are public (they serve the same data as the site itself);
// the sync trigger sits behind Bearer auth. sseHandler, if non-nil, is
// mounted at GET /events.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Portfolio reads.
	r.Get("/data", h.GetData)
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/{slug}", h.GetProject)
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{slug}", h.GetPost)
	r.Get("/sync/status", h.SyncStatus)

	// Sync trigger (webhook target, auth-protected).
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Post("/sync", h.TriggerSync)
	})

	// SSE endpoint for preview clients.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
