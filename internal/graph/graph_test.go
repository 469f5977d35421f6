package graph

import (
	"testing"

	"github.com/starford/zettel/internal/models"
)

func fact(id, title string, data ...string) models.Fact {
	return models.Fact{ID: id, Title: title, Filename: id + "-" + title + ".md", Name: "Links", Data: data}
}

func TestTarget(t *testing.T) {
	cases := map[string]string{
		"[20200101120000]": "20200101120000",
		"[[Some Note]]":    "Some Note",
		"[[Target|Alias]]": "Target",
		"[[ spaced ]]":     "spaced",
	}
	for in, want := range cases {
		if got := Target(in); got != want {
			t.Errorf("Target(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBacklinks_RoundTrip(t *testing.T) {
	a := fact("20200101000001", "a", "[20200101000002]")
	b := fact("20200101000002", "b")
	out := Backlinks([]models.Fact{a, b})

	if len(out[1].Bag) != 1 || out[1].Bag[0].ID != a.ID {
		t.Fatalf("B bag = %+v, want A", out[1].Bag)
	}
	if len(out[0].Bag) != 0 {
		t.Errorf("A bag = %+v, want empty (B does not link to A)", out[0].Bag)
	}
	if a.Bag != nil || b.Bag != nil {
		t.Error("input facts must not be mutated")
	}
}

func TestBacklinks_ByWikiName(t *testing.T) {
	a := fact("1", "a", "[[2-b]]")
	b := fact("2", "b")
	out := Backlinks([]models.Fact{a, b})
	if len(out[1].Bag) != 1 {
		t.Errorf("wiki-name backlink missing: %+v", out[1].Bag)
	}
}

func TestBacklinks_DeduplicatesReferrers(t *testing.T) {
	a := fact("1", "a", "[2]", "[[2-b]]", "[2]")
	b := fact("2", "b")
	out := Backlinks([]models.Fact{a, b})
	if len(out[1].Bag) != 1 {
		t.Errorf("bag = %d entries, want 1", len(out[1].Bag))
	}
}

func TestBacklinks_SharedIDKeepsEveryReferrer(t *testing.T) {
	a := fact("2020", "a", "[20200101000000]")
	b := fact("2020", "b", "[20200101000000]")
	target := fact("20200101000000", "t")
	out := Backlinks([]models.Fact{a, b, target})
	bag := out[2].Bag
	if len(bag) != 2 || bag[0].Filename != "2020-a.md" || bag[1].Filename != "2020-b.md" {
		t.Errorf("bag = %+v, want both referrers", bag)
	}
}

func TestByValue_CopiesFacts(t *testing.T) {
	f := models.Fact{ID: "1", Title: "One", Data: []string{"#a", "#b", "#a"}}
	idx := ByValue([]models.Fact{f})
	if len(idx) != 2 || len(idx["#a"]) != 1 {
		t.Fatalf("index = %+v", idx)
	}
	idx["#a"][0].Data[0] = "#mutated"
	if f.Data[0] != "#a" {
		t.Error("index entries must not alias input data")
	}
}

func TestByIdentity(t *testing.T) {
	idx := ByIdentity([]models.Fact{fact("1", "a", "[2]"), fact("2", "b")})
	if len(idx["1"]) != 1 || len(idx["2"]) != 1 {
		t.Errorf("index = %+v", idx)
	}
	if len(idx["missing"]) != 0 {
		t.Error("absent keys yield empty collections")
	}
}

func TestDisplayByValue(t *testing.T) {
	facts := []models.Fact{
		{ID: "1", Title: "One", Data: []string{"#x", "#x"}},
		{ID: "2", Title: "Two", Data: []string{"#x"}},
	}
	got := DisplayByValue(facts)["#x"]
	if len(got) != 2 || got[0] != "[One][1]" || got[1] != "[Two][2]" {
		t.Errorf("display = %v", got)
	}
}

func TestOrphans(t *testing.T) {
	notes := []models.Note{{ID: "1", WikiName: "1-a"}, {ID: "2", WikiName: "2-b"}}
	links := []models.Fact{
		fact("1", "a", "[2]", "[99999999]"),
		fact("2", "b", "[1]", "[[1-a]]"),
	}
	out := Orphans(links, notes)
	if len(out) != 1 {
		t.Fatalf("orphans = %+v", out)
	}
	if out[0].Fact.ID != "1" || len(out[0].Missing) != 1 || out[0].Missing[0] != "99999999" {
		t.Errorf("orphan = %+v", out[0])
	}
}

func TestReferenced(t *testing.T) {
	notes := []models.Note{{ID: "1", WikiName: "1-a"}, {ID: "2", WikiName: "2-b"}, {ID: "3", WikiName: "3-c"}}
	links := []models.Fact{fact("1", "a", "[[3-c]]"), fact("2", "b", "[1]")}
	got := Referenced(links, notes)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("referenced = %+v", got)
	}
}
