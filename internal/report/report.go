// Package report renders the note graph through a logic-less template.
//
// Templates use sections ({{#name}}...{{/name}}), inverted sections
// ({{^name}}...{{/name}}), escaped and raw substitution ({{name}},
// {{{name}}}, {{& name}}) and comments ({{! ... }}). On top of that:
//
//	{{~name}} {{{~name}}}                   markdown-escape the substitution
//	{{?Tasks/regex/}}...{{/?Tasks}}         emit only elements matching regex
//	{{?Tasks?sort(due)/regex/}}...{{/?Tasks}} the same over a sorted copy
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cbroglie/mustache"

	"github.com/starford/zettel/internal/graph"
	"github.com/starford/zettel/internal/models"
)

// Render evaluates tmpl against view. Every call builds its own derived
// section table, so concurrent renders never share state.
func Render(tmpl string, view map[string]any) (string, error) {
	src, table, err := expand(tmpl)
	if err != nil {
		return "", err
	}
	t, err := mustache.ParseString(src)
	if err != nil {
		return "", fmt.Errorf("report: parse template: %w", err)
	}
	out, err := t.Render(view, layer(table, view))
	if err != nil {
		return "", fmt.Errorf("report: render: %w", err)
	}
	return out, nil
}

// values is a list of template values. Substituted directly, it prints its
// items joined by commas.
type values []any

func (v values) String() string {
	parts := make([]string, len(v))
	for i, item := range v {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ",")
}

// Input is the assembled graph a report is rendered from.
type Input struct {
	Notes      []models.Note
	Links      []models.Fact
	Categories []models.Category
	Created    time.Time
	Modified   time.Time
}

// Generate builds a fresh view from in and renders tmpl against it.
func Generate(tmpl string, in Input) (string, error) {
	return Render(tmpl, BuildView(in))
}

// BuildView returns the context object exposed to templates.
func BuildView(in Input) map[string]any {
	view := make(map[string]any, len(in.Categories)+6)

	notes := make([]any, 0, len(in.Notes))
	for _, n := range in.Notes {
		notes = append(notes, noteView(n))
	}
	view["notes"] = notes

	referenced := graph.Referenced(in.Links, in.Notes)
	refs := make([]any, 0, len(referenced))
	for _, n := range referenced {
		refs = append(refs, noteView(n))
	}
	view["referenced"] = refs

	orphans := graph.Orphans(in.Links, in.Notes)
	ov := make([]any, 0, len(orphans))
	for _, o := range orphans {
		ov = append(ov, map[string]any{
			"note": factView(o.Fact),
			"ids":  strs(o.Missing),
		})
	}
	view["orphans"] = ov

	formatted := make(map[string]any, len(in.Categories))
	for _, c := range in.Categories {
		keys := make([]string, 0, len(c.Index))
		for k := range c.Index {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		entries := make([]any, 0, len(keys))
		for _, k := range keys {
			facts := make([]any, 0, len(c.Index[k]))
			for _, f := range c.Index[k] {
				facts = append(facts, factView(f))
			}
			entries = append(entries, map[string]any{"key": k, "value": facts})
		}
		view[c.Name] = entries
		formatted[c.Name] = c.Formatted
	}
	view["formatted"] = formatted
	view["created"] = timestamp(in.Created)
	view["modified"] = timestamp(in.Modified)
	return view
}

func noteView(n models.Note) map[string]any {
	matches := make(map[string]any, len(n.MatchData))
	for k, v := range n.MatchData {
		matches[k] = strs(v)
	}
	return map[string]any{
		"id":        n.ID,
		"title":     n.Title,
		"filename":  n.Filename,
		"fullpath":  n.Fullpath,
		"wikiName":  n.WikiName,
		"link":      n.Link(),
		"matchData": matches,
	}
}

func factView(f models.Fact) map[string]any {
	bag := make([]any, 0, len(f.Bag))
	for _, b := range f.Bag {
		bag = append(bag, factView(b))
	}
	return map[string]any{
		"id":       f.ID,
		"title":    f.Title,
		"filename": f.Filename,
		"fullpath": f.Fullpath,
		"name":     f.Name,
		"data":     strs(f.Data),
		"bag":      bag,
		"link":     f.Link(),
	}
}

func strs(in []string) values {
	out := make(values, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
