package extract

import (
	"regexp"

	"github.com/starford/zettel/internal/graph"
	"github.com/starford/zettel/internal/models"
)

var (
	// idLinkRe matches a bracketed 8-14 digit note id, e.g. [20200101120000].
	idLinkRe = regexp.MustCompile(`\[\d{8,14}\]`)

	// wikiLinkRe additionally matches [[double-bracket]] names.
	wikiLinkRe = regexp.MustCompile(`\[\[[^\[\]\n]+\]\]|\[\d{8,14}\]`)
)

// Links returns the link extractor. Its index is keyed by the owning note id
// and every fact carries its backlinks in Bag.
func Links(wiki bool) Extractor {
	re := idLinkRe
	if wiki {
		re = wikiLinkRe
	}
	v := newVariant(CategoryLinks, func(text string) []string {
		return re.FindAllString(text, -1)
	}, formatLinks)
	v.index = func(facts []models.Fact) models.CategoryIndex {
		return graph.ByIdentity(graph.Backlinks(facts))
	}
	return v
}
