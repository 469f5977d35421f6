// Package models defines the domain types shared by extraction, indexing and reporting.
package models

import (
	"slices"
	"time"
)

// Note is the record produced by scanning one note file.
// It is built once per scan pass and never mutated afterwards.
type Note struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Fullpath string `json:"fullpath"`
	WikiName string `json:"wiki_name"`
	// MatchData maps a category name to the raw matches in order of appearance.
	MatchData map[string][]string `json:"match_data"`
	Checksum  string              `json:"checksum"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Matches returns the raw matches for category, or nil.
func (n Note) Matches(category string) []string {
	return n.MatchData[category]
}

// Link returns the reference-style display link for the note.
func (n Note) Link() string {
	return "[" + n.Title + "][" + n.ID + "]"
}

// NoteMetadata is a lightweight representation returned by file discovery.
type NoteMetadata struct {
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fact is the per-note, per-category extraction result.
type Fact struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Filename string   `json:"filename"`
	Fullpath string   `json:"fullpath"`
	Name     string   `json:"name"`
	Data     []string `json:"data"`
	Bag      []Fact   `json:"bag,omitempty"`
}

// Link returns the display link of the note owning the fact.
func (f Fact) Link() string {
	return "[" + f.Title + "][" + f.ID + "]"
}

// Clone returns a structural copy; Data and Bag never alias the receiver.
func (f Fact) Clone() Fact {
	out := f
	out.Data = slices.Clone(f.Data)
	if f.Bag != nil {
		out.Bag = make([]Fact, len(f.Bag))
		for i, b := range f.Bag {
			out.Bag[i] = b.Clone()
		}
	}
	return out
}

// CategoryIndex groups facts by a category-specific key.
type CategoryIndex map[string][]Fact

// Category is one extractor's contribution to a report.
type Category struct {
	Name      string        `json:"name"`
	Index     CategoryIndex `json:"index"`
	Formatted string        `json:"formatted"`
}
