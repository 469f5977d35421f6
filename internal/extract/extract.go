// Package extract scans raw note text for categories of facts (links, tags,
// contexts, tasks, orphaned references, properties) and formats each
// category for the report.
package extract

import (
	"slices"

	"github.com/starford/zettel/internal/graph"
	"github.com/starford/zettel/internal/models"
)

// Category names.
const (
	CategoryLinks      = "Links"
	CategoryTags       = "Tags"
	CategoryContexts   = "Contexts"
	CategoryTasks      = "Tasks"
	CategoryOrphans    = "Orphans"
	CategoryProperties = "Properties"
)

// Task display modes.
const (
	TasksNone       = "none"
	TasksByFile     = "by-file"
	TasksByPriority = "by-priority"
)

// Options are the run options consumed by the extractors.
type Options struct {
	// Wiki enables [[double-bracket]] links.
	Wiki bool
	// Tasks is one of TasksNone, TasksByFile, TasksByPriority.
	Tasks string
	// PropertyKeys restricts which inline property keys are merged.
	// Empty means all keys.
	PropertyKeys []string
}

// Extractor scans note text for one category of fact.
type Extractor interface {
	// Name is the unique category name.
	Name() string
	// ShouldCollect reports whether the extractor runs for the note at path.
	ShouldCollect(path string, opts Options) bool
	// Collect returns the raw matches in order of appearance. It is pure.
	Collect(text string) []string
	// Extract wraps the note's stored matches for this category.
	Extract(n models.Note) models.Fact
	// ExtractAll builds the category index over all notes.
	ExtractAll(notes []models.Note) models.CategoryIndex
	// Format renders the category's contribution to a report.
	Format(facts []models.Fact) string
}

// variant is the single Extractor implementation; categories differ only in
// the functions they carry.
type variant struct {
	name    string
	collect func(text string) []string
	format  func(facts []models.Fact) string
	index   func(facts []models.Fact) models.CategoryIndex
	enabled func(path string, opts Options) bool
}

var _ Extractor = (*variant)(nil)

func (v *variant) Name() string { return v.name }

func (v *variant) ShouldCollect(path string, opts Options) bool {
	if v.enabled == nil {
		return true
	}
	return v.enabled(path, opts)
}

func (v *variant) Collect(text string) []string {
	out := v.collect(text)
	if out == nil {
		return []string{}
	}
	return out
}

func (v *variant) Extract(n models.Note) models.Fact {
	return models.Fact{
		ID:       n.ID,
		Title:    n.Title,
		Filename: n.Filename,
		Fullpath: n.Fullpath,
		Name:     v.name,
		Data:     slices.Clone(n.Matches(v.name)),
	}
}

func (v *variant) ExtractAll(notes []models.Note) models.CategoryIndex {
	return v.index(ExtractEach(v, notes))
}

func (v *variant) Format(facts []models.Fact) string {
	return v.format(facts)
}

// ExtractEach applies ex.Extract to every note, in note order.
func ExtractEach(ex Extractor, notes []models.Note) []models.Fact {
	facts := make([]models.Fact, 0, len(notes))
	for _, n := range notes {
		facts = append(facts, ex.Extract(n))
	}
	return facts
}

func newVariant(name string, collect func(string) []string, format func([]models.Fact) string) *variant {
	return &variant{
		name:    name,
		collect: collect,
		format:  format,
		index:   graph.ByValue,
	}
}
