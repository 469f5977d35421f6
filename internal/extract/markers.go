package extract

import (
	"regexp"
	"strings"

	"github.com/starford/zettel/internal/frontmatter"
)

var (
	// tagRe matches #word at line start or after whitespace. A second #
	// cannot start the word, so "##Heading" is not a tag.
	tagRe = regexp.MustCompile(`(?m)(?:^|\s)(#[\p{L}\p{N}_/-]+)`)

	// numericTagRe matches tags that would collide with note ids.
	numericTagRe = regexp.MustCompile(`^#\d{8,14}$`)

	// contextRe matches @word at line start or after whitespace.
	contextRe = regexp.MustCompile(`(?m)(?:^|\s)(@[\p{L}\p{N}_/-]+)`)
)

// Tags returns the tag extractor: inline #tags plus the frontmatter tags key.
func Tags() Extractor {
	return newVariant(CategoryTags, collectTags, formatGrouped)
}

// Contexts returns the @context extractor.
func Contexts() Extractor {
	return newVariant(CategoryContexts, func(text string) []string {
		return submatches(contextRe, body(text))
	}, formatGrouped)
}

func collectTags(text string) []string {
	var out []string
	doc, err := frontmatter.Parse(text)
	if err != nil {
		doc = &frontmatter.Document{Body: text}
	}
	for _, t := range frontmatter.Tags(doc.Fields["tags"]) {
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out = append(out, t)
	}
	for _, t := range submatches(tagRe, doc.Body) {
		if numericTagRe.MatchString(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// body returns text without its frontmatter block, or text itself when the
// block is absent or malformed.
func body(text string) string {
	doc, err := frontmatter.Parse(text)
	if err != nil {
		return text
	}
	return doc.Body
}
