package extract

import (
	"strings"
	"testing"

	"github.com/starford/zettel/internal/models"
)

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTags_Collect(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"#timestamp", []string{"#timestamp"}},
		{"##Subtitle", nil},
		{"#12345678", nil},
		{"a #tag here", []string{"#tag"}},
		{"# Heading\nline with #one and #two", []string{"#one", "#two"}},
		{"mail me at a#b", nil},
	}
	ex := Tags()
	for _, c := range cases {
		got := ex.Collect(c.text)
		if !equal(got, c.want) {
			t.Errorf("Collect(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestTags_Frontmatter(t *testing.T) {
	text := "---\ntags: alpha, beta\n---\nBody #gamma\n"
	got := Tags().Collect(text)
	want := []string{"#alpha", "#beta", "#gamma"}
	if !equal(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}

	list := "---\ntags:\n  - one\n  - two\n---\n"
	if got := Tags().Collect(list); !equal(got, []string{"#one", "#two"}) {
		t.Errorf("list tags = %v", got)
	}
}

func TestContexts_Collect(t *testing.T) {
	got := Contexts().Collect("@home call mom\nemail bob@example.com @work")
	if !equal(got, []string{"@home", "@work"}) {
		t.Errorf("contexts = %v", got)
	}
}

func TestTasks_Collect(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"(A) text", []string{"(A) text"}},
		{"(-) text", nil},
		{"[ ] text", []string{"[ ] text"}},
		{"* [ ] text", []string{"[ ] text"}},
		{"- [ ] text", []string{"[ ] text"}},
		{"1. [ ] text", []string{"[ ] text"}},
		{"[X] text", nil},
		{"[x] text", nil},
		{"call about +20200101120000 soon", []string{"call about +20200101120000 soon"}},
		{"plain line", nil},
	}
	ex := Tasks(TasksByPriority)
	for _, c := range cases {
		got := ex.Collect(c.text)
		if !equal(got, c.want) {
			t.Errorf("Collect(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestTasks_DisabledByNone(t *testing.T) {
	ex := Tasks(TasksNone)
	if ex.ShouldCollect("a.md", Options{Tasks: TasksNone}) {
		t.Error("tasks should not be collected when display mode is none")
	}
	if !ex.ShouldCollect("a.md", Options{Tasks: TasksByFile}) {
		t.Error("tasks should be collected for by-file")
	}
}

func TestLinks_Collect(t *testing.T) {
	text := "see [20200101120000] and [[Other Note]] and [123]"
	if got := Links(false).Collect(text); !equal(got, []string{"[20200101120000]"}) {
		t.Errorf("id links = %v", got)
	}
	want := []string{"[20200101120000]", "[[Other Note]]"}
	if got := Links(true).Collect(text); !equal(got, want) {
		t.Errorf("wiki links = %v, want %v", got, want)
	}
}

func TestLinks_ExtractAllIndexesByIdentity(t *testing.T) {
	notes := []models.Note{
		{ID: "20200101000001", Title: "A", Filename: "20200101000001-a.md", MatchData: map[string][]string{
			CategoryLinks: {"[20200101000002]"},
		}},
		{ID: "20200101000002", Title: "B", Filename: "20200101000002-b.md", MatchData: map[string][]string{}},
	}
	idx := Links(false).ExtractAll(notes)
	if len(idx) != 2 {
		t.Fatalf("len(index) = %d, want 2", len(idx))
	}
	b := idx["20200101000002"]
	if len(b) != 1 || len(b[0].Bag) != 1 || b[0].Bag[0].ID != "20200101000001" {
		t.Errorf("B backlinks = %+v", b)
	}
	if _, ok := idx["[20200101000002]"]; ok {
		t.Error("links must not be indexed by raw value")
	}
}

func TestOrphans_Collect(t *testing.T) {
	text := strings.Join([]string{
		"An [inline](http://x) link, a [defined] ref, and a [missing] one.",
		"Wiki [[name]], id [20200101120000], prop [k:: v], box [ ] and [x].",
		"Full [text][gone] reference.",
		"",
		"[defined]: http://example.com",
	}, "\n")
	got := Orphans().Collect(text)
	want := []string{"[missing]", "[gone]"}
	if !equal(got, want) {
		t.Errorf("orphans = %v, want %v", got, want)
	}
}

func TestCollectProperties_Merge(t *testing.T) {
	text := "---\ntag: v0\n---\n[tag:: v1] [tag:: v2, v3] [tag:: v1]\n"
	bag := CollectProperties(text, nil)
	if !equal(bag.Values["tag"], []string{"v0", "v1", "v2", "v3"}) {
		t.Errorf("tag = %v", bag.Values["tag"])
	}
	if !bag.Inline {
		t.Error("expected inline flag")
	}
}

func TestCollectProperties_AllowList(t *testing.T) {
	allow, err := CompilePatterns([]string{"^due$"})
	if err != nil {
		t.Fatal(err)
	}
	text := "---\nowner: me\n---\n[due:: 2020-01-01] [status:: open]\n"
	bag := CollectProperties(text, allow)
	if !equal(bag.Keys, []string{"owner", "due"}) {
		t.Errorf("keys = %v", bag.Keys)
	}
	if _, ok := bag.Values["status"]; ok {
		t.Error("status should be filtered out")
	}
}

func TestCollectProperties_DuplicateInlineIsNotNew(t *testing.T) {
	bag := CollectProperties("---\nk: v\n---\n[k:: v]\n", nil)
	if bag.Inline {
		t.Error("inline value already in frontmatter should not set Inline")
	}
}

func TestCompilePatterns_Invalid(t *testing.T) {
	if _, err := CompilePatterns([]string{"("}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestStripInline(t *testing.T) {
	allow, _ := CompilePatterns([]string{"due"})
	body := "Task [due:: 2020] [other:: x]\n[due:: 2021]\nkeep\n"
	got := StripInline(body, allow)
	want := "Task [other:: x]\nkeep\n"
	if got != want {
		t.Errorf("StripInline = %q, want %q", got, want)
	}
}

func TestProperties_Format(t *testing.T) {
	ex := Properties(nil)
	note := models.Note{ID: "1", Title: "One", MatchData: map[string][]string{
		CategoryProperties: ex.Collect("[b:: 2] [a:: 1, 3]"),
	}}
	out := ex.Format([]models.Fact{ex.Extract(note)})
	if !strings.Contains(out, "a : 1,3\nb : 2\n") {
		t.Errorf("format = %q", out)
	}
}

func TestTasks_FormatModes(t *testing.T) {
	facts := []models.Fact{
		{ID: "1", Title: "One", Data: []string{"[ ] later", "(B) second"}},
		{ID: "2", Title: "Two", Data: []string{"(A) first"}},
	}
	byPriority := Tasks(TasksByPriority).Format(facts)
	want := "- (A) first ([Two][2])\n- (B) second ([One][1])\n- [ ] later ([One][1])\n"
	if byPriority != want {
		t.Errorf("by-priority = %q", byPriority)
	}
	byFile := Tasks(TasksByFile).Format(facts)
	if !strings.Contains(byFile, "<summary>[One][1]</summary>") || strings.Count(byFile, "<details>") != 2 {
		t.Errorf("by-file = %q", byFile)
	}
}

func TestExtract_CopiesData(t *testing.T) {
	note := models.Note{ID: "1", MatchData: map[string][]string{CategoryTags: {"#a"}}}
	f := Tags().Extract(note)
	f.Data[0] = "#changed"
	if note.MatchData[CategoryTags][0] != "#a" {
		t.Error("Extract must not alias the note's match data")
	}
}
