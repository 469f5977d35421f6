package extract

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/starford/zettel/internal/models"
)

// titleRe matches a "title:" line or a leading "# " heading.
var titleRe = regexp.MustCompile(`(?m)^(?:title:[ \t]*|#[ \t]+)(\S[^\r\n]*)`)

// Registry is the ordered set of extractors applied to every note.
type Registry struct {
	opts       Options
	extractors []Extractor
}

// NewRegistry builds the canonical extractor order for opts.
func NewRegistry(opts Options) (*Registry, error) {
	allow, err := CompilePatterns(opts.PropertyKeys)
	if err != nil {
		return nil, err
	}
	return &Registry{
		opts: opts,
		extractors: []Extractor{
			Links(opts.Wiki),
			Tags(),
			Contexts(),
			Tasks(opts.Tasks),
			Orphans(),
			Properties(allow),
		},
	}, nil
}

// Options returns the run options the registry was built with.
func (r *Registry) Options() Options { return r.opts }

// Extractors returns the extractors in registration order.
func (r *Registry) Extractors() []Extractor { return slices.Clone(r.extractors) }

// Get returns the extractor registered under name.
func (r *Registry) Get(name string) (Extractor, bool) {
	for _, ex := range r.extractors {
		if ex.Name() == name {
			return ex, true
		}
	}
	return nil, false
}

// Record assembles the Note Record for one file. Every extractor sees the
// same text.
func (r *Registry) Record(path, fullpath, text string) models.Note {
	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	n := models.Note{
		ID:        NoteID(stem),
		Title:     Title(text, stem),
		Filename:  filename,
		Fullpath:  fullpath,
		WikiName:  stem,
		MatchData: make(map[string][]string, len(r.extractors)),
	}
	for _, ex := range r.extractors {
		if !ex.ShouldCollect(path, r.opts) {
			continue
		}
		n.MatchData[ex.Name()] = ex.Collect(text)
	}
	return n
}

// NoteID returns the token before the first "-" of stem, or stem itself.
func NoteID(stem string) string {
	if id, _, found := strings.Cut(stem, "-"); found && id != "" {
		return id
	}
	return stem
}

// Title returns the first title line or heading in text, else fallback.
func Title(text, fallback string) string {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	t := strings.TrimSpace(m[1])
	if len(t) >= 2 && (t[0] == '"' || t[0] == '\'') && t[len(t)-1] == t[0] {
		t = t[1 : len(t)-1]
	}
	if t == "" {
		return fallback
	}
	return t
}
