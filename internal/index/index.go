// Package index scans note files into Note Records and holds the in-memory
// graph built from them. The graph is rebuilt from scratch on every scan.
package index

import (
	"fmt"
	"slices"
	"time"

	"github.com/starford/zettel/internal/apperr"
	"github.com/starford/zettel/internal/extract"
	"github.com/starford/zettel/internal/graph"
	"github.com/starford/zettel/internal/models"
)

// Reader is the read side of an Index. Consumers should depend on this
// interface rather than the concrete *Index type.
type Reader interface {
	Notes() []models.Note
	Note(key string) (models.Note, error)
	Links() []models.Fact
	Backlinks(key string) ([]models.Fact, error)
	Orphans() []graph.Orphan
	Referenced() []models.Note
	Categories() []models.Category
	Category(name string) (models.Category, error)
	Modified() time.Time
}

var _ Reader = (*Index)(nil)

// Index is the read-only graph of one scan pass.
type Index struct {
	notes      []models.Note
	byKey      map[string]int
	links      []models.Fact
	categories []models.Category
	modified   time.Time
}

// Build assembles the category indexes, backlinks and formatted output of
// every enabled extractor in registry order.
func Build(notes []models.Note, reg *extract.Registry) *Index {
	idx := &Index{
		notes: slices.Clone(notes),
		byKey: make(map[string]int, 2*len(notes)),
	}
	for i, n := range idx.notes {
		if _, ok := idx.byKey[n.ID]; !ok {
			idx.byKey[n.ID] = i
		}
		if _, ok := idx.byKey[n.WikiName]; !ok {
			idx.byKey[n.WikiName] = i
		}
		if n.UpdatedAt.After(idx.modified) {
			idx.modified = n.UpdatedAt
		}
	}

	opts := reg.Options()
	for _, ex := range reg.Extractors() {
		if !ex.ShouldCollect("", opts) {
			continue
		}
		facts := extract.ExtractEach(ex, idx.notes)
		if ex.Name() == extract.CategoryLinks {
			facts = graph.Backlinks(facts)
			idx.links = facts
		}
		idx.categories = append(idx.categories, models.Category{
			Name:      ex.Name(),
			Index:     ex.ExtractAll(idx.notes),
			Formatted: ex.Format(facts),
		})
	}
	return idx
}

// Notes returns the notes in scan order.
func (x *Index) Notes() []models.Note { return slices.Clone(x.notes) }

// Note looks a note up by id or wiki name.
func (x *Index) Note(key string) (models.Note, error) {
	i, ok := x.byKey[key]
	if !ok {
		return models.Note{}, fmt.Errorf("index: note %q: %w", key, apperr.ErrNotFound)
	}
	return x.notes[i], nil
}

// Links returns every note's Links fact with its backlinks in Bag.
func (x *Index) Links() []models.Fact {
	out := make([]models.Fact, len(x.links))
	for i, f := range x.links {
		out[i] = f.Clone()
	}
	return out
}

// Backlinks returns the notes linking to the note identified by key.
func (x *Index) Backlinks(key string) ([]models.Fact, error) {
	n, err := x.Note(key)
	if err != nil {
		return nil, err
	}
	for _, f := range x.links {
		if f.ID == n.ID && f.Filename == n.Filename {
			return f.Clone().Bag, nil
		}
	}
	return nil, nil
}

// Orphans returns the notes linking to ids that no note carries.
func (x *Index) Orphans() []graph.Orphan {
	return graph.Orphans(x.links, x.notes)
}

// Referenced returns the notes that are the target of at least one link.
func (x *Index) Referenced() []models.Note {
	return graph.Referenced(x.links, x.notes)
}

// Categories returns one entry per enabled extractor, in registry order.
func (x *Index) Categories() []models.Category { return slices.Clone(x.categories) }

// Category returns the named category.
func (x *Index) Category(name string) (models.Category, error) {
	for _, c := range x.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("index: category %q: %w", name, apperr.ErrNotFound)
}

// Modified is the newest note modification time.
func (x *Index) Modified() time.Time { return x.modified }
