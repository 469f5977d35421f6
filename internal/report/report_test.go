package report

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/zettel/internal/models"
)

func mustRender(t *testing.T, tmpl string, view map[string]any) string {
	t.Helper()
	out, err := Render(tmpl, view)
	if err != nil {
		t.Fatalf("Render(%q): %v", tmpl, err)
	}
	return out
}

func tasks(keys ...string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = map[string]any{"key": k}
	}
	return out
}

func TestRender_Substitution(t *testing.T) {
	got := mustRender(t, "Hi {{name}} {{{raw}}} {{& raw}}!", map[string]any{"name": "<b>", "raw": "<i>"})
	if got != "Hi &lt;b&gt; <i> <i>!" {
		t.Errorf("got %q", got)
	}
	if got := mustRender(t, "[{{missing}}]", map[string]any{}); got != "[]" {
		t.Errorf("missing name rendered %q", got)
	}
}

func TestRender_SectionsAndStandaloneLines(t *testing.T) {
	tmpl := "{{#items}}\n- {{.}}\n{{/items}}\n{{^empty}}\nnone\n{{/empty}}\n{{! a comment }}\nend\n"
	got := mustRender(t, tmpl, map[string]any{
		"items": []any{"a", "b"},
		"empty": []any{},
	})
	want := "- a\n- b\nnone\nend\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_ContextStackAndDottedNames(t *testing.T) {
	view := map[string]any{
		"top":    "T",
		"person": map[string]any{"name": "Ann"},
		"list": []any{
			map[string]any{"title": "x"},
			map[string]any{"title": "y"},
		},
	}
	if got := mustRender(t, "{{person.name}}", view); got != "Ann" {
		t.Errorf("dotted = %q", got)
	}
	if got := mustRender(t, "{{#list}}{{title}}-{{top}};{{/list}}", view); got != "x-T;y-T;" {
		t.Errorf("stack = %q", got)
	}
	if got := mustRender(t, "{{#person}}{{name}}{{/person}}", view); got != "Ann" {
		t.Errorf("map section = %q", got)
	}
}

func TestRender_StructuralErrors(t *testing.T) {
	for _, tmpl := range []string{"{{#a}}x", "{{#a}}{{/b}}", "x{{/a}}", "{{name", "{{}}"} {
		if _, err := Render(tmpl, map[string]any{}); err == nil {
			t.Errorf("Render(%q): expected error", tmpl)
		}
	}
}

func TestRender_EscapeDirective(t *testing.T) {
	view := map[string]any{"title": "Fix (a) <b>"}
	if got := mustRender(t, "{{~title}}", view); got != "Fix &#40;a&#41; &lt;b&gt;" {
		t.Errorf("escaped = %q", got)
	}
	if got := mustRender(t, "{{{~ title }}}", view); got != "Fix &#40;a&#41; <b>" {
		t.Errorf("raw escaped = %q", got)
	}
}

func TestRender_SortByArgument(t *testing.T) {
	view := map[string]any{"Tasks": tasks(
		"[ ] c due:2021-01-01",
		"[ ] b",
		"[ ] a due:2020-01-01",
	)}
	got := mustRender(t, "{{?Tasks?sort(due)/./}}{{key}};{{/?Tasks}}", view)
	want := "[ ] a due:2020-01-01;[ ] c due:2021-01-01;[ ] b;"
	if got != want {
		t.Errorf("sort(due) = %q, want %q", got, want)
	}

	got = mustRender(t, "{{?Tasks?sort()/./}}{{key}};{{/?Tasks}}", view)
	want = "[ ] a due:2020-01-01;[ ] b;[ ] c due:2021-01-01;"
	if got != want {
		t.Errorf("sort() = %q, want %q", got, want)
	}
}

func TestRender_SortIsStableAndLeavesSourceAlone(t *testing.T) {
	items := tasks("x", "y", "z")
	view := map[string]any{"Tasks": items}
	got := mustRender(t, "{{?Tasks?sort(due)/./}}{{key}}{{/?Tasks}}|{{#Tasks}}{{key}}{{/Tasks}}", view)
	if got != "xyz|xyz" {
		t.Errorf("got %q", got)
	}
}

func TestRender_FilterDirective(t *testing.T) {
	view := map[string]any{"Tags": tasks("#go", "#rust", "#golang")}
	got := mustRender(t, "{{?Tags/go/}}{{key}} {{/?Tags}}", view)
	if got != "#go #golang " {
		t.Errorf("filter = %q", got)
	}
}

func TestRender_FilterSuppressesWholeLines(t *testing.T) {
	view := map[string]any{"Tasks": tasks("[ ] a due:x", "[ ] b")}
	got := mustRender(t, "{{?Tasks/due/}}\n- {{key}}\n{{/?Tasks}}\n", view)
	if got != "- [ ] a due:x\n" {
		t.Errorf("got %q", got)
	}
}

func TestRender_FilterAroundEscape(t *testing.T) {
	view := map[string]any{"Tasks": tasks("fix (a)", "skip (b)")}
	got := mustRender(t, "{{?Tasks/fix/}}\n* {{~key}}\n{{/?Tasks}}\nend\n", view)
	if got != "* fix &#40;a&#41;\nend\n" {
		t.Errorf("got %q", got)
	}
}

func TestRender_ListSubstitutionJoinsItems(t *testing.T) {
	view := BuildView(testInput())
	got := mustRender(t, "{{#Tags}}{{#value}}{{title}}={{data}};{{/value}}{{/Tags}}", view)
	if got != "One=#a,#b;Two=#a;One=#a,#b;" {
		t.Errorf("got %q", got)
	}
}

func TestRender_MultipleDirectivesDoNotCollide(t *testing.T) {
	view := map[string]any{"Tags": tasks("#go", "#rust", "#golang")}
	got := mustRender(t, "{{?Tags/go/}}{{key}}{{/?Tags}}|{{?Tags?sort()/rust/}}{{key}}{{/?Tags}}", view)
	if got != "#go#golang|#rust" {
		t.Errorf("got %q", got)
	}
}

func TestRender_UnknownFunctionRendersInPlace(t *testing.T) {
	view := map[string]any{"Tasks": tasks("a")}
	got := mustRender(t, "a {{?Tasks?shuffle()/x/}}{{key}}{{/?Tasks}} b", view)
	if got != "a `unknown function: shuffle` b" {
		t.Errorf("got %q", got)
	}
}

func TestRender_MalformedDirective(t *testing.T) {
	for _, tmpl := range []string{
		"{{?Tasks}}x{{/?Tasks}}",
		"{{?Tasks/x/}}never closed",
		"{{?Tasks/(/}}x{{/?Tasks}}",
	} {
		if _, err := Render(tmpl, map[string]any{}); err == nil {
			t.Errorf("Render(%q): expected error", tmpl)
		}
	}
}

func testInput() Input {
	notes := []models.Note{
		{ID: "20200101000001", Title: "One", Filename: "20200101000001-one.md", WikiName: "20200101000001-one"},
		{ID: "20200101000002", Title: "Two", Filename: "20200101000002-two.md", WikiName: "20200101000002-two"},
	}
	one := models.Fact{ID: notes[0].ID, Title: "One", Name: "Links", Data: []string{"[20200101000002]", "[99999999]"}}
	two := models.Fact{ID: notes[1].ID, Title: "Two", Name: "Links"}
	tagOne := models.Fact{ID: notes[0].ID, Title: "One", Name: "Tags", Data: []string{"#a", "#b"}}
	tagTwo := models.Fact{ID: notes[1].ID, Title: "Two", Name: "Tags", Data: []string{"#a"}}
	return Input{
		Notes: notes,
		Links: []models.Fact{one, two},
		Categories: []models.Category{{
			Name:      "Tags",
			Index:     models.CategoryIndex{"#b": {tagOne}, "#a": {tagOne, tagTwo}},
			Formatted: "formatted tags",
		}},
		Created:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Modified: time.Date(2023, 6, 7, 8, 9, 10, 0, time.UTC),
	}
}

func TestBuildView(t *testing.T) {
	view := BuildView(testInput())
	if n := len(view["notes"].([]any)); n != 2 {
		t.Errorf("notes = %d", n)
	}
	got := mustRender(t, "{{#referenced}}{{title}}{{/referenced}}|{{#orphans}}{{note.title}}: {{#ids}}{{.}}{{/ids}}{{/orphans}}", view)
	if got != "Two|One: 99999999" {
		t.Errorf("graph views = %q", got)
	}
	got = mustRender(t, "{{#Tags}}{{key}}={{#value}}{{title}},{{/value}};{{/Tags}}{{formatted.Tags}}", view)
	if got != "#a=One,Two,;#b=One,;formatted tags" {
		t.Errorf("category = %q", got)
	}
	if got := mustRender(t, "{{created}} {{modified}}", view); got != "2024-01-02T03:04:05Z 2023-06-07T08:09:10Z" {
		t.Errorf("timestamps = %q", got)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	tmpl := "{{#notes}}{{link}}\n{{/notes}}{{?Tags?sort()/./}}{{key}}{{/?Tags}}"
	a, err := Generate(tmpl, testInput())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(tmpl, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("renders differ:\n%s\n---\n%s", a, b)
	}
	if !strings.Contains(a, "[One][20200101000001]") {
		t.Errorf("output = %q", a)
	}
}
