package frontmatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/zettel/internal/apperr"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	doc, err := Parse("---\ntitle: Hello\ntags:\n  - go\n  - zettel\n---\n# Hello\nBody text.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.Present {
		t.Fatal("expected frontmatter to be present")
	}
	if doc.Fields["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", doc.Fields["title"])
	}
	tags := Tags(doc.Fields["tags"])
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "zettel" {
		t.Errorf("tags = %v, want [go zettel]", tags)
	}
	if doc.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", doc.Body)
	}
	if strings.Join(doc.Keys, ",") != "title,tags" {
		t.Errorf("keys = %v", doc.Keys)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	doc, err := Parse("# Just a heading\nSome text.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Present {
		t.Error("expected no frontmatter")
	}
	if doc.Body != "# Just a heading\nSome text.\n" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_MustStartAtOffsetZero(t *testing.T) {
	doc, err := Parse("\n---\ntitle: x\n---\nbody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Present {
		t.Error("a block not at offset 0 is body text")
	}
}

func TestParse_UnclosedBlockIsBody(t *testing.T) {
	text := "---\ntitle: x\nno closing line"
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Present || doc.Body != text {
		t.Errorf("doc = %+v", doc)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("---\n: invalid: yaml: {{{\n---\nBody\n")
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !errors.Is(err, apperr.ErrMalformedInput) {
		t.Errorf("error should wrap ErrMalformedInput: %v", err)
	}
}

func TestParse_ScalarTopLevelIsMalformed(t *testing.T) {
	if _, err := Parse("---\njust a string\n---\n"); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestTags_ScalarSplitsOnCommaAndSpace(t *testing.T) {
	got := Tags("alpha, beta gamma")
	if strings.Join(got, "|") != "alpha|beta|gamma" {
		t.Errorf("tags = %v", got)
	}
}

func TestStrings_Coercion(t *testing.T) {
	if got := Strings(nil); got != nil {
		t.Errorf("nil -> %v", got)
	}
	if got := Strings("v"); len(got) != 1 || got[0] != "v" {
		t.Errorf("scalar -> %v", got)
	}
	if got := Strings(map[string]any{"a": 1}); len(got) != 1 {
		t.Errorf("nested -> %v", got)
	}
}

func TestSet_KeepsUntouchedEntries(t *testing.T) {
	head := "---\ntitle: X\ndraft:\nstatus: \"\"\nmeta:\n  a: 1\n"
	doc, err := Parse(head + "---\nbody [due:: 2020]\n")
	if err != nil {
		t.Fatal(err)
	}
	out, err := doc.Set([]string{"due"}, map[string][]string{"due": {"2020"}}, "body\n")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !strings.HasPrefix(out, head) {
		t.Fatalf("existing entries changed:\n%s", out)
	}
	got, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got.Keys, ",") != "title,draft,status,meta,due" {
		t.Errorf("keys = %v", got.Keys)
	}
	if got.Fields["due"] != "2020" || got.Body != "body\n" {
		t.Errorf("doc = %+v", got)
	}
	if _, ok := got.Fields["meta"].(map[string]any); !ok {
		t.Errorf("meta = %#v, want a mapping", got.Fields["meta"])
	}
}

func TestSet_RewritesExistingKeyInPlace(t *testing.T) {
	doc, err := Parse("---\ntags: [a]\n# keep\ntitle: T\n---\n")
	if err != nil {
		t.Fatal(err)
	}
	out, err := doc.Set([]string{"tags"}, map[string][]string{"tags": {"a", "b"}}, "")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !strings.HasSuffix(out, "# keep\ntitle: T\n---\n") {
		t.Errorf("out = %q", out)
	}
	got, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got.Keys, ",") != "tags,title" {
		t.Errorf("keys = %v", got.Keys)
	}
	if tags := Strings(got.Fields["tags"]); strings.Join(tags, ",") != "a,b" {
		t.Errorf("tags = %v", tags)
	}
}

func TestSet_WithoutFrontmatter(t *testing.T) {
	doc, err := Parse("body\n")
	if err != nil {
		t.Fatal(err)
	}
	out, err := doc.Set([]string{"k"}, map[string][]string{"k": {"v"}}, doc.Body)
	if err != nil {
		t.Fatal(err)
	}
	if out != "---\nk: v\n---\nbody\n" {
		t.Errorf("out = %q", out)
	}
}

func TestSet_FlowMapping(t *testing.T) {
	doc, err := Parse("---\n{a: 1}\n---\n")
	if err != nil {
		t.Fatal(err)
	}
	out, err := doc.Set([]string{"b"}, map[string][]string{"b": {"x", "y"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(%q): %v", out, err)
	}
	if strings.Join(got.Keys, ",") != "a,b" || got.Fields["a"] != "1" {
		t.Errorf("doc = %+v", got)
	}
}

func TestMergeable(t *testing.T) {
	doc, err := Parse("---\ntitle: T\nlist: [a, b]\nmeta:\n  a: 1\nnested:\n  - {x: 1}\n---\n")
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{"title": true, "list": true, "absent": true, "meta": false, "nested": false}
	for key, want := range cases {
		if got := doc.Mergeable(key); got != want {
			t.Errorf("Mergeable(%q) = %v, want %v", key, got, want)
		}
	}
}
