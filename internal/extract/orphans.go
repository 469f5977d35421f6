package extract

import (
	"regexp"
	"strings"
)

var (
	// bracketRe matches a single-bracket label.
	bracketRe = regexp.MustCompile(`\[([^\[\]\n]+)\]`)

	// refDefRe matches a reference definition line, "[label]: target".
	refDefRe = regexp.MustCompile(`(?m)^[ \t]{0,3}\[([^\[\]\n]+)\]:`)

	idLabelRe = regexp.MustCompile(`^\d{8,14}$`)
)

// Orphans returns the extractor for reference-style links with no matching
// definition in the same note.
func Orphans() Extractor {
	return newVariant(CategoryOrphans, collectOrphans, formatOrphans)
}

func collectOrphans(text string) []string {
	b := body(text)
	defined := make(map[string]struct{})
	for _, m := range refDefRe.FindAllStringSubmatch(b, -1) {
		defined[strings.ToLower(strings.TrimSpace(m[1]))] = struct{}{}
	}

	var out []string
	for _, loc := range bracketRe.FindAllStringSubmatchIndex(b, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && (b[start-1] == '[' || b[start-1] == '!') {
			continue
		}
		if end < len(b) && strings.IndexByte("([:]", b[end]) >= 0 {
			continue
		}
		label := strings.TrimSpace(b[loc[2]:loc[3]])
		switch {
		case label == "", label == "x", label == "X":
			continue
		case idLabelRe.MatchString(label), strings.Contains(label, "::"):
			continue
		}
		if _, ok := defined[strings.ToLower(label)]; ok {
			continue
		}
		out = append(out, b[start:end])
	}
	return out
}
