package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/zettel/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// templatePath is re-read on every report request so template edits show up
// without a restart.
func NewRouter(svc *noteservice.Service, templatePath string, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc, templatePath)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/report", h.Report)

	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{id}", h.GetNote)
	r.Get("/notes/{id}/backlinks", h.Backlinks)

	r.Get("/categories/{name}", h.Category)
	r.Get("/orphans", h.Orphans)

	return r
}
