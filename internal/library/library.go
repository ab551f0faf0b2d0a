package library

import (
	"sort"
	"strings"

	"fitcal/internal/model"
)

// Index is an in-memory view over the exercise catalog. It is built
// once at startup and read-only afterwards.
type Index struct {
	byID    map[string]model.Exercise
	ordered []model.Exercise // sorted by name
}

// NewIndex builds an index over the catalog rows. Exercises are kept
// in stable name order for listing.
func NewIndex(exercises []model.Exercise) *Index {
	idx := &Index{
		byID:    make(map[string]model.Exercise, len(exercises)),
		ordered: make([]model.Exercise, len(exercises)),
	}
	copy(idx.ordered, exercises)
	sort.SliceStable(idx.ordered, func(i, j int) bool {
		return idx.ordered[i].Name < idx.ordered[j].Name
	})
	for _, ex := range exercises {
		idx.byID[ex.ID] = ex
	}
	return idx
}

// Len returns the catalog size.
func (idx *Index) Len() int {
	return len(idx.ordered)
}

// Search returns the exercises whose name contains query,
// case-insensitive. An empty query matches everything. Name order is
// preserved.
func (idx *Index) Search(query string) []model.Exercise {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Exercise, 0, len(idx.ordered))
	for _, ex := range idx.ordered {
		if query == "" || strings.Contains(strings.ToLower(ex.Name), query) {
			out = append(out, ex)
		}
	}
	return out
}

// ByID looks an exercise up by catalog ID.
func (idx *Index) ByID(id string) (model.Exercise, bool) {
	ex, ok := idx.byID[id]
	return ex, ok
}

// CategoryCounts tallies exercises per category for the given result
// set (use Search("") for the whole catalog).
func (idx *Index) CategoryCounts(exercises []model.Exercise) map[string]int {
	counts := make(map[string]int)
	for _, ex := range exercises {
		counts[ex.Category]++
	}
	return counts
}

// Alternatives resolves an exercise's alternative IDs into catalog
// entries, skipping IDs that no longer exist.
func (idx *Index) Alternatives(ex model.Exercise) []model.Exercise {
	if ex.Alternatives == "" {
		return nil
	}
	var out []model.Exercise
	for _, id := range strings.Split(ex.Alternatives, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if alt, ok := idx.byID[id]; ok {
			out = append(out, alt)
		}
	}
	return out
}
