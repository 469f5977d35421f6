// Package graph inverts per-note facts into category, backlink and orphan views.
// Every function is total: absent keys yield empty collections and inputs are
// never mutated.
package graph

import (
	"path/filepath"
	"strings"

	"github.com/starford/zettel/internal/models"
)

// Orphan pairs a note's Links fact with the link targets that match no note.
type Orphan struct {
	Fact    models.Fact
	Missing []string
}

// Target strips the surrounding brackets and any wiki alias from a raw link.
func Target(raw string) string {
	t := strings.Trim(raw, "[]")
	if i := strings.Index(t, "|"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// ByValue maps every distinct raw value to the facts that produced it.
func ByValue(facts []models.Fact) models.CategoryIndex {
	out := make(models.CategoryIndex)
	for _, f := range facts {
		seen := make(map[string]struct{}, len(f.Data))
		for _, v := range f.Data {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out[v] = append(out[v], f.Clone())
		}
	}
	return out
}

// ByIdentity maps each owning note id to its facts.
func ByIdentity(facts []models.Fact) models.CategoryIndex {
	out := make(models.CategoryIndex, len(facts))
	for _, f := range facts {
		out[f.ID] = append(out[f.ID], f.Clone())
	}
	return out
}

// DisplayByValue maps every raw value to the display links of the notes
// that produced it, without duplicates.
func DisplayByValue(facts []models.Fact) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	for _, f := range facts {
		link := f.Link()
		for _, v := range f.Data {
			if seen[v] == nil {
				seen[v] = make(map[string]struct{})
			}
			if _, dup := seen[v][link]; dup {
				continue
			}
			seen[v][link] = struct{}{}
			out[v] = append(out[v], link)
		}
	}
	return out
}

// Backlinks returns copies of facts whose Bag holds every fact that links to
// the owning note, either by id or by wiki name.
func Backlinks(facts []models.Fact) []models.Fact {
	byTarget := make(map[string][]models.Fact)
	for _, f := range facts {
		seen := make(map[string]struct{})
		for _, raw := range f.Data {
			t := Target(raw)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			byTarget[t] = append(byTarget[t], f)
		}
	}

	out := make([]models.Fact, len(facts))
	for i, f := range facts {
		c := f.Clone()
		added := make(map[string]struct{})
		for _, key := range keys(f) {
			for _, ref := range byTarget[key] {
				id := identity(ref)
				if _, dup := added[id]; dup {
					continue
				}
				added[id] = struct{}{}
				b := ref.Clone()
				b.Bag = nil
				c.Bag = append(c.Bag, b)
			}
		}
		out[i] = c
	}
	return out
}

// Orphans returns the facts that reference at least one id absent from notes.
func Orphans(links []models.Fact, notes []models.Note) []Orphan {
	known := knownTargets(notes)
	var out []Orphan
	for _, f := range links {
		var missing []string
		seen := make(map[string]struct{})
		for _, raw := range f.Data {
			t := Target(raw)
			if _, ok := known[t]; ok || t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			missing = append(missing, t)
		}
		if len(missing) > 0 {
			out = append(out, Orphan{Fact: f.Clone(), Missing: missing})
		}
	}
	return out
}

// Referenced returns the notes targeted by at least one link, in note order.
func Referenced(links []models.Fact, notes []models.Note) []models.Note {
	targets := make(map[string]struct{})
	for _, f := range links {
		for _, raw := range f.Data {
			targets[Target(raw)] = struct{}{}
		}
	}
	var out []models.Note
	for _, n := range notes {
		_, byID := targets[n.ID]
		_, byName := targets[n.WikiName]
		if byID || byName {
			out = append(out, n)
		}
	}
	return out
}

func knownTargets(notes []models.Note) map[string]struct{} {
	known := make(map[string]struct{}, len(notes)*2)
	for _, n := range notes {
		known[n.ID] = struct{}{}
		if n.WikiName != "" {
			known[n.WikiName] = struct{}{}
		}
	}
	return known
}

// identity tells notes apart. Ids come from the filename prefix and can be
// shared, so the path wins when it is known.
func identity(f models.Fact) string {
	switch {
	case f.Fullpath != "":
		return f.Fullpath
	case f.Filename != "":
		return f.Filename
	}
	return f.ID
}

// keys returns the lookup keys a fact's note can be linked by.
func keys(f models.Fact) []string {
	stem := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename))
	if stem == "" || stem == f.ID {
		return []string{f.ID}
	}
	return []string{f.ID, stem}
}
