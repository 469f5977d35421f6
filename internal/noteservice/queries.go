package noteservice

import (
	"context"
	"slices"
	"time"

	"github.com/starford/zettel/internal/models"
)

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	WikiName  string    `json:"wiki_name"`
	Link      string    `json:"link"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Filename  string              `json:"filename"`
	Fullpath  string              `json:"fullpath"`
	WikiName  string              `json:"wiki_name"`
	Checksum  string              `json:"checksum"`
	MatchData map[string][]string `json:"match_data"`
	Backlinks []string            `json:"backlinks"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// OrphanItem is a note with links to ids no note carries.
type OrphanItem struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	Missing []string `json:"missing"`
}

// CategoryDetail is one category's grouping keys and formatted output.
type CategoryDetail struct {
	Name      string   `json:"name"`
	Keys      []string `json:"keys"`
	Formatted string   `json:"formatted"`
}

// ListNotes returns every note in scan order.
func (s *Service) ListNotes(ctx context.Context) ([]NoteListItem, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	notes := idx.Notes()
	items := make([]NoteListItem, len(notes))
	for i, n := range notes {
		items[i] = NoteListItem{
			ID:        n.ID,
			Title:     n.Title,
			Filename:  n.Filename,
			WikiName:  n.WikiName,
			Link:      n.Link(),
			UpdatedAt: n.UpdatedAt,
		}
	}
	return items, nil
}

// GetNote returns a note by id or wiki name, enriched with backlinks.
func (s *Service) GetNote(ctx context.Context, key string) (*NoteDetail, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	n, err := idx.Note(key)
	if err != nil {
		return nil, err
	}
	backlinks, err := s.backlinks(ctx, key)
	if err != nil {
		return nil, err
	}
	matches := make(map[string][]string, len(n.MatchData))
	for k, v := range n.MatchData {
		matches[k] = nonNilSlice(v)
	}
	return &NoteDetail{
		ID:        n.ID,
		Title:     n.Title,
		Filename:  n.Filename,
		Fullpath:  n.Fullpath,
		WikiName:  n.WikiName,
		Checksum:  n.Checksum,
		MatchData: matches,
		Backlinks: backlinks,
		UpdatedAt: n.UpdatedAt,
	}, nil
}

// Backlinks returns the display links of notes linking to key.
func (s *Service) Backlinks(ctx context.Context, key string) ([]string, error) {
	return s.backlinks(ctx, key)
}

func (s *Service) backlinks(ctx context.Context, key string) ([]string, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	facts, err := idx.Backlinks(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(facts))
	for _, f := range facts {
		out = append(out, f.Link())
	}
	return out, nil
}

// Orphans lists notes linking to missing ids.
func (s *Service) Orphans(ctx context.Context) ([]OrphanItem, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	orphans := idx.Orphans()
	out := make([]OrphanItem, len(orphans))
	for i, o := range orphans {
		out[i] = OrphanItem{
			ID:      o.Fact.ID,
			Title:   o.Fact.Title,
			Link:    o.Fact.Link(),
			Missing: nonNilSlice(o.Missing),
		}
	}
	return out, nil
}

// Category returns the grouping keys and formatted output of a category.
func (s *Service) Category(ctx context.Context, name string) (*CategoryDetail, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	c, err := idx.Category(name)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Name: c.Name, Keys: sortedKeys(c.Index), Formatted: c.Formatted}, nil
}

func sortedKeys(idx models.CategoryIndex) []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
