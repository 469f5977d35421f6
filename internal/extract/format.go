package extract

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/starford/zettel/internal/graph"
	"github.com/starford/zettel/internal/models"
)

// formatLinks lists each note's outgoing links followed by its backlinks.
func formatLinks(facts []models.Fact) string {
	var b strings.Builder
	for _, f := range facts {
		if len(f.Data) == 0 && len(f.Bag) == 0 {
			continue
		}
		fmt.Fprintf(&b, "* %s\n", f.Link())
		for _, d := range f.Data {
			fmt.Fprintf(&b, "  * → %s\n", d)
		}
		for _, bl := range f.Bag {
			fmt.Fprintf(&b, "  * ← %s\n", bl.Link())
		}
	}
	return b.String()
}

// formatGrouped lists every value with the notes carrying it, sorted by value.
func formatGrouped(facts []models.Fact) string {
	byValue := graph.DisplayByValue(facts)
	values := make([]string, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Strings(values)

	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "* %s\n", v)
		links := slices.Clone(byValue[v])
		sort.Strings(links)
		for _, l := range links {
			fmt.Fprintf(&b, "  * %s\n", l)
		}
	}
	return b.String()
}

// formatTasksByPriority lists all tasks sorted by text, so (A) sorts before
// (B) and both before open checkboxes.
func formatTasksByPriority(facts []models.Fact) string {
	type task struct{ text, link string }
	var tasks []task
	for _, f := range facts {
		for _, d := range f.Data {
			tasks = append(tasks, task{d, f.Link()})
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].text < tasks[j].text })

	var b strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s (%s)\n", t.text, t.link)
	}
	return b.String()
}

// formatTasksByFile groups tasks under a disclosure block per note.
func formatTasksByFile(facts []models.Fact) string {
	var b strings.Builder
	for _, f := range facts {
		if len(f.Data) == 0 {
			continue
		}
		fmt.Fprintf(&b, "<details>\n<summary>%s</summary>\n\n", f.Link())
		for _, d := range f.Data {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n</details>\n")
	}
	return b.String()
}

func formatOrphans(facts []models.Fact) string {
	var b strings.Builder
	for _, f := range facts {
		if len(f.Data) == 0 {
			continue
		}
		fmt.Fprintf(&b, "* %s: %s\n", f.Link(), strings.Join(f.Data, ", "))
	}
	return b.String()
}

// formatProperties writes sorted "key : v1,v2" lines per note.
func formatProperties(facts []models.Fact) string {
	var b strings.Builder
	for _, f := range facts {
		if len(f.Data) == 0 {
			continue
		}
		values := make(map[string][]string)
		for _, line := range f.Data {
			k, v, _ := strings.Cut(line, "::")
			k = strings.TrimSpace(k)
			values[k] = append(values[k], strings.TrimSpace(v))
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(&b, "### %s\n\n", f.Link())
		for _, k := range keys {
			fmt.Fprintf(&b, "%s : %s\n", k, strings.Join(values[k], ","))
		}
		b.WriteString("\n")
	}
	return b.String()
}
