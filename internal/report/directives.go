package report

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cbroglie/mustache"
)

const (
	escapeSection = "__escape"
	sortPrefix    = "__sort"
	filterPrefix  = "__filter"

	// unannotated items sort after every annotated one.
	sortSentinel = "\U0010FFFF"
)

var (
	queryHeadRe = regexp.MustCompile(`^\{\{\?([^?/{}\s]+)(?:\?(\w+)\(([^)]*)\))?/(.*?)/\}\}`)
	escapeRawRe = regexp.MustCompile(`\{\{\{~\s*([^{}]+?)\s*\}\}\}`)
	escapeVarRe = regexp.MustCompile(`\{\{~\s*([^{}]+?)\s*\}\}`)
)

var markdownEscaper = strings.NewReplacer("(", "&#40;", ")", "&#41;")

// derived describes a section name introduced by a query directive. It is
// either a sorted copy of another list or a filter over rendered text.
type derived struct {
	source string
	arg    string
	filter *regexp.Regexp
}

// expand rewrites escape and query directives into plain sections and
// returns the derived sections they refer to. The table is private to one
// render.
func expand(src string) (string, map[string]derived, error) {
	src = escapeRawRe.ReplaceAllString(src, "{{#"+escapeSection+"}}{{{$1}}}{{/"+escapeSection+"}}")
	src = escapeVarRe.ReplaceAllString(src, "{{#"+escapeSection+"}}{{$1}}{{/"+escapeSection+"}}")

	table := make(map[string]derived, 2*strings.Count(src, "{{?"))
	seq := 0
	// Innermost first: the rightmost head has no directive after it, so the
	// first matching close tag belongs to it.
	for {
		at := strings.LastIndex(src, "{{?")
		if at < 0 {
			break
		}
		m := queryHeadRe.FindStringSubmatch(src[at:])
		if m == nil {
			return "", nil, fmt.Errorf("report: malformed query directive at offset %d", at)
		}
		name, fn, arg, pattern := m[1], m[2], m[3], m[4]
		headEnd := at + len(m[0])
		closeTag := "{{/?" + name + "}}"
		k := strings.Index(src[headEnd:], closeTag)
		if k < 0 {
			return "", nil, fmt.Errorf("report: query directive %s at offset %d is not closed", name, at)
		}
		closeAt := headEnd + k
		closeEnd := closeAt + len(closeTag)

		// A directive tag alone on its line takes the line with it, so a
		// suppressed element leaves no blank line behind.
		start, innerStart := at, headEnd
		if ls, le, ok := standalone(src, at, headEnd); ok {
			start, innerStart = ls, le
		}
		innerEnd, end := closeAt, closeEnd
		if ls, le, ok := standalone(src, closeAt, closeEnd); ok && ls >= innerStart {
			innerEnd, end = ls, le
		}
		inner := src[innerStart:innerEnd]
		seq++

		var repl string
		switch fn {
		case "", "sort":
			re, err := regexp.Compile(pattern)
			if err != nil {
				return "", nil, fmt.Errorf("report: query directive %s: %w", name, err)
			}
			source := name
			if fn == "sort" {
				source = fmt.Sprintf("%s%d", sortPrefix, seq)
				table[source] = derived{source: name, arg: arg}
			}
			filter := fmt.Sprintf("%s%d", filterPrefix, seq)
			table[filter] = derived{filter: re}
			repl = "{{#" + source + "}}{{#" + filter + "}}" + inner + "{{/" + filter + "}}{{/" + source + "}}"
		default:
			start, end = at, closeEnd
			repl = "`unknown function: " + fn + "`"
		}
		src = src[:start] + repl + src[end:]
	}
	return src, table, nil
}

// standalone reports whether src[from:to] is the only non-blank content on
// its line, and if so returns the bounds of that whole line including its
// newline.
func standalone(src string, from, to int) (int, int, bool) {
	ls := strings.LastIndexByte(src[:from], '\n') + 1
	if strings.TrimLeft(src[ls:from], " \t") != "" {
		return 0, 0, false
	}
	rest := src[to:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		if strings.TrimSpace(rest) != "" {
			return 0, 0, false
		}
		return ls, len(src), true
	}
	if strings.TrimRight(rest[:nl], " \t\r") != "" {
		return 0, 0, false
	}
	return ls, to + nl + 1, true
}

// layer builds the context consulted after the view: the escape lambda and
// one entry per derived section of this render.
func layer(table map[string]derived, view map[string]any) map[string]any {
	out := make(map[string]any, len(table)+1)
	out[escapeSection] = mustache.LambdaFunc(escapeMarkdown)
	for name, d := range table {
		if d.filter != nil {
			out[name] = filterLambda(d.filter)
			continue
		}
		out[name] = sorted(resolve(view, d.source), d.arg)
	}
	return out
}

func escapeMarkdown(text string, render mustache.RenderFunc) (string, error) {
	out, err := render(text)
	if err != nil {
		return "", err
	}
	return markdownEscaper.Replace(out), nil
}

func filterLambda(re *regexp.Regexp) mustache.LambdaFunc {
	return func(text string, render mustache.RenderFunc) (string, error) {
		out, err := render(text)
		if err != nil {
			return "", err
		}
		if re.MatchString(out) {
			return out, nil
		}
		return "", nil
	}
}

// resolve follows a dotted name through nested maps of the view.
func resolve(view map[string]any, name string) any {
	var cur any = view
	for _, part := range strings.Split(name, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// sorted returns a stable-sorted copy of v's items; the source is left alone.
func sorted(v any, arg string) values {
	items := slices.Clone(list(v))
	slices.SortStableFunc(items, func(a, b any) int {
		return strings.Compare(sortKey(itemKey(a), arg), sortKey(itemKey(b), arg))
	})
	return items
}

func list(v any) []any {
	switch val := v.(type) {
	case values:
		return val
	case []any:
		return val
	case []string:
		return strs(val)
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out
	case nil:
		return nil
	}
	return []any{v}
}

func itemKey(item any) string {
	if m, ok := item.(map[string]any); ok {
		return fmt.Sprint(m["key"])
	}
	return fmt.Sprint(item)
}

// sortKey is the part of key after "arg:", or the sentinel when the
// annotation is absent. An empty arg sorts by the whole key.
func sortKey(key, arg string) string {
	if arg == "" {
		return key
	}
	token := arg + ":"
	i := strings.Index(key, token)
	if i < 0 {
		return sortSentinel
	}
	return key[i+len(token):]
}
