package extract

import (
	"regexp"
	"strings"
)

var (
	// bulletRe matches a list bullet or ordinal prefix.
	bulletRe = regexp.MustCompile(`^[ \t]*(?:[-*+]|\d+[.)])[ \t]+`)

	// taskHeadRe matches an open checkbox or a priority marker (A)-(Z).
	taskHeadRe = regexp.MustCompile(`^(?:\[ \]|\([A-Z]\))(?:[ \t]|$)`)

	// doneRe matches completed markers, which never count as tasks.
	doneRe = regexp.MustCompile(`^(?:\[[^ \]]\]|\(-\))`)

	// projectRe matches a +<8-14 digit> project reference.
	projectRe = regexp.MustCompile(`(?:^|\s)\+\d{8,14}\b`)
)

// Tasks returns the task extractor. mode selects the report layout and
// TasksNone disables collection.
func Tasks(mode string) Extractor {
	format := formatTasksByPriority
	if mode == TasksByFile {
		format = formatTasksByFile
	}
	v := newVariant(CategoryTasks, collectTasks, format)
	v.enabled = func(_ string, opts Options) bool {
		return opts.Tasks != TasksNone
	}
	return v
}

func collectTasks(text string) []string {
	var out []string
	for _, line := range strings.Split(body(text), "\n") {
		item := line
		if loc := bulletRe.FindStringIndex(line); loc != nil {
			item = line[loc[1]:]
		}
		item = strings.TrimSpace(item)
		if item == "" || doneRe.MatchString(item) {
			continue
		}
		if taskHeadRe.MatchString(item) || projectRe.MatchString(item) {
			out = append(out, item)
		}
	}
	return out
}
