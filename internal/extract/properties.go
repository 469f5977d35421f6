package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/zettel/internal/frontmatter"
)

var (
	// inlinePropRe matches an inline [key:: value] annotation.
	inlinePropRe = regexp.MustCompile(`\[([^\[\]:\n]+)::[ \t]*([^\[\]\n]*)\]`)

	// stripPropRe also takes one preceding blank so removal leaves no gap.
	stripPropRe = regexp.MustCompile(`[ \t]?` + inlinePropRe.String())
)

// PropertyBag is the merged key -> values view of a note's frontmatter and
// inline annotations.
type PropertyBag struct {
	Keys   []string
	Values map[string][]string
	// Inline is set when an inline annotation contributed a value the
	// frontmatter did not already have.
	Inline bool
}

func (b *PropertyBag) add(key, value string) bool {
	if b.Values == nil {
		b.Values = make(map[string][]string)
	}
	existing, ok := b.Values[key]
	if !ok {
		b.Keys = append(b.Keys, key)
	}
	for _, v := range existing {
		if v == value {
			return false
		}
	}
	b.Values[key] = append(existing, value)
	return true
}

// Lines returns "key:: value" entries in bag order.
func (b PropertyBag) Lines() []string {
	var out []string
	for _, k := range b.Keys {
		for _, v := range b.Values[k] {
			out = append(out, k+":: "+v)
		}
	}
	return out
}

// CompilePatterns compiles an inline-key allow-list.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("extract: property pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func allowed(key string, allow []*regexp.Regexp) bool {
	if len(allow) == 0 {
		return true
	}
	for _, re := range allow {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// CollectProperties merges frontmatter keys with inline annotations whose
// key passes allow. Frontmatter keys are never filtered.
func CollectProperties(text string, allow []*regexp.Regexp) PropertyBag {
	var bag PropertyBag
	doc, err := frontmatter.Parse(text)
	if err != nil {
		doc = &frontmatter.Document{Body: text}
	}
	for _, k := range doc.Keys {
		values := frontmatter.Strings(doc.Fields[k])
		if k == "tags" {
			values = frontmatter.Tags(doc.Fields[k])
		}
		for _, v := range values {
			bag.add(k, v)
		}
	}

	keys, values := InlineProperties(doc.Body, allow)
	for _, k := range keys {
		for _, v := range values[k] {
			if bag.add(k, v) {
				bag.Inline = true
			}
		}
	}
	return bag
}

// InlineProperties returns the allowed inline annotations of body, keys in
// first-seen order and values deduplicated per key.
func InlineProperties(body string, allow []*regexp.Regexp) ([]string, map[string][]string) {
	var bag PropertyBag
	for _, m := range inlinePropRe.FindAllStringSubmatch(body, -1) {
		key := strings.TrimSpace(m[1])
		if key == "" || !allowed(key, allow) {
			continue
		}
		for _, v := range strings.Split(m[2], ",") {
			if v = strings.TrimSpace(v); v != "" {
				bag.add(key, v)
			}
		}
	}
	return bag.Keys, bag.Values
}

// StripInline removes the allowed inline annotations from body. Lines left
// blank by the removal are dropped.
func StripInline(body string, allow []*regexp.Regexp) string {
	return StripInlineFunc(body, func(key string) bool { return allowed(key, allow) })
}

// StripInlineFunc removes the inline annotations whose key satisfies strip.
func StripInlineFunc(body string, strip func(key string) bool) string {
	lines := strings.Split(body, "\n")
	out := lines[:0]
	for _, line := range lines {
		stripped := stripPropRe.ReplaceAllStringFunc(line, func(m string) string {
			sub := inlinePropRe.FindStringSubmatch(m)
			if strip(strings.TrimSpace(sub[1])) {
				return ""
			}
			return m
		})
		if stripped != line {
			if strings.TrimSpace(stripped) == "" {
				continue
			}
			stripped = strings.TrimRight(stripped, " \t")
		}
		out = append(out, stripped)
	}
	return strings.Join(out, "\n")
}

// Properties returns the property extractor.
func Properties(allow []*regexp.Regexp) Extractor {
	return newVariant(CategoryProperties, func(text string) []string {
		return CollectProperties(text, allow).Lines()
	}, formatProperties)
}
