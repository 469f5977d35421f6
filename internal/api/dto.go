package api

import "github.com/starford/zettel/internal/noteservice"

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// CategoryDetail is a category response (aliased from the domain layer).
type CategoryDetail = noteservice.CategoryDetail

// OrphanItem is a note with unresolved links (aliased from the domain layer).
type OrphanItem = noteservice.OrphanItem

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// BacklinksResponse lists the display links of referring notes.
type BacklinksResponse struct {
	Backlinks []string `json:"backlinks" example:"[One][20200101120000]" validate:"required"`
}

// OrphansResponse wraps orphaned link listings.
type OrphansResponse struct {
	Orphans []OrphanItem `json:"orphans" validate:"required"`
}
