package library

import (
	"testing"

	"fitcal/internal/model"
)

func testCatalog() []model.Exercise {
	return []model.Exercise{
		{ID: "3", Name: "Squat", Category: "strength", Alternatives: "1"},
		{ID: "1", Name: "Push Up", Category: "strength", Alternatives: "3, 2"},
		{ID: "2", Name: "Jumping Jacks", Category: "conditioning"},
		{ID: "4", Name: "Hip Opener", Category: "mobility", Alternatives: "99"},
	}
}

func TestSearch(t *testing.T) {
	idx := NewIndex(testCatalog())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query matches all in name order", "", []string{"Hip Opener", "Jumping Jacks", "Push Up", "Squat"}},
		{"substring", "up", []string{"Push Up"}},
		{"case insensitive", "SQ", []string{"Squat"}},
		{"surrounding whitespace ignored", "  jumping  ", nil},
		{"no match", "deadlift", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Search(tt.query)
			if tt.name == "surrounding whitespace ignored" {
				// "  jumping  " trims to "jumping" which matches.
				if len(got) != 1 || got[0].Name != "Jumping Jacks" {
					t.Fatalf("Search(%q) = %v", tt.query, names(got))
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, names(got), tt.want)
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("Search(%q)[%d] = %q, want %q", tt.query, i, got[i].Name, name)
				}
			}
		})
	}
}

func names(exercises []model.Exercise) []string {
	out := make([]string, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Name
	}
	return out
}

func TestByID(t *testing.T) {
	idx := NewIndex(testCatalog())
	if ex, ok := idx.ByID("2"); !ok || ex.Name != "Jumping Jacks" {
		t.Errorf("ByID(2) = %+v, %v", ex, ok)
	}
	if _, ok := idx.ByID("99"); ok {
		t.Error("ByID(99) should not exist")
	}
}

func TestCategoryCounts(t *testing.T) {
	idx := NewIndex(testCatalog())
	counts := idx.CategoryCounts(idx.Search(""))
	if counts["strength"] != 2 || counts["conditioning"] != 1 || counts["mobility"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestAlternatives(t *testing.T) {
	idx := NewIndex(testCatalog())

	pushUp, _ := idx.ByID("1")
	alts := idx.Alternatives(pushUp)
	if len(alts) != 2 || alts[0].Name != "Squat" || alts[1].Name != "Jumping Jacks" {
		t.Errorf("Alternatives(Push Up) = %v", names(alts))
	}

	// Dangling alternative IDs are skipped, not errors.
	hip, _ := idx.ByID("4")
	if alts := idx.Alternatives(hip); len(alts) != 0 {
		t.Errorf("Alternatives(Hip Opener) = %v, want none", names(alts))
	}

	jacks, _ := idx.ByID("2")
	if alts := idx.Alternatives(jacks); alts != nil {
		t.Errorf("Alternatives(Jumping Jacks) = %v, want nil", names(alts))
	}
}
