package jsonapi

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIncluded_Dedup(t *testing.T) {
	in := NewIncluded()
	if !in.Add(Resource{Type: "profile", ID: "a"}) {
		t.Error("expected first add to succeed")
	}
	if !in.Add(Resource{Type: "profile", ID: "b"}) {
		t.Error("expected second profile to be added")
	}
	if in.Add(Resource{Type: "profile", ID: "a"}) {
		t.Error("expected duplicate profile to be dropped")
	}
	if !in.Add(Resource{Type: "organisation", ID: "a"}) {
		t.Error("expected same id with a different type to be added")
	}

	got := in.Resources()
	if len(got) != 3 {
		t.Fatalf("expected 3 included resources, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" || got[2].Type != "organisation" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestCollection_EmptyRendersArray(t *testing.T) {
	doc := Collection(nil, &Meta{Total: 0, Offset: 0, Limit: 15})
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", raw)
	}
	if !strings.Contains(string(raw), `"meta":{"total":0,"offset":0,"limit":15}`) {
		t.Errorf("unexpected meta: %s", raw)
	}
}

func TestRelationship_OnlyIdentifiers(t *testing.T) {
	r := Resource{
		ID:   "r1",
		Type: "result",
		Relationships: map[string]Relationship{
			"profile": {Data: Identifier{Type: "profile", ID: "p1"}},
		},
	}
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `"relationships":{"profile":{"data":{"type":"profile","id":"p1"}}}`
	if !strings.Contains(string(raw), want) {
		t.Errorf("expected %s in %s", want, raw)
	}
}
