package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/eihwaz/internal/tagservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *tagservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Tag engine.
	r.Post("/tags/validate", h.ValidateTags)
	r.Post("/tags/suggest", h.SuggestTags)
	r.Post("/tags/rename", h.RenameTag)
	r.Get("/tags/similar", h.SimilarTags)
	r.Get("/tags", h.ListTags)
	r.Get("/taxonomy", h.Taxonomy)

	// Notes (read-only surface over the vault).
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
