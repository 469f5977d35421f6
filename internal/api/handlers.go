package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/zettel/internal/apperr"
	"github.com/starford/zettel/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc          *noteservice.Service
	templatePath string
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, templatePath string) *Handler {
	return &Handler{svc: svc, templatePath: templatePath}
}

// writeServiceError maps service errors onto status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error(op+" failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// Report handles GET /api/report.
//
//	@Summary		Render the report template against the current notes
//	@Tags			report
//	@Produce		text/markdown
//	@Success		200	{string}	string
//	@Success		304
//	@Security		BearerAuth
//	@Router			/report [get]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.RenderFile(r.Context(), h.templatePath)
	if err != nil {
		writeServiceError(w, "render report", err)
		return
	}
	etag := `"` + rep.Checksum + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeMarkdown(w, http.StatusOK, rep.Content)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes in scan order
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListNotes(r.Context())
	if err != nil {
		writeServiceError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a note by id or wiki name
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id or wiki name"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Backlinks handles GET /api/notes/{id}/backlinks.
//
//	@Summary		List notes linking to a note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id or wiki name"
//	@Success		200	{object}	BacklinksResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/backlinks [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.Backlinks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{Backlinks: links})
}

// Category handles GET /api/categories/{name}.
//
//	@Summary		Get a category's keys and formatted output
//	@Tags			categories
//	@Produce		json
//	@Param			name	path		string	true	"Category name"	Enums(Links, Tags, Contexts, Tasks, Orphans, Properties)
//	@Success		200		{object}	CategoryDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{name} [get]
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Category(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, "category", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Orphans handles GET /api/orphans.
//
//	@Summary		List notes linking to missing ids
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	OrphansResponse
//	@Security		BearerAuth
//	@Router			/orphans [get]
func (h *Handler) Orphans(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Orphans(r.Context())
	if err != nil {
		writeServiceError(w, "orphans", err)
		return
	}
	writeJSON(w, http.StatusOK, OrphansResponse{Orphans: items})
}
