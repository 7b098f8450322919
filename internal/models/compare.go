package models

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders strings for display. A collator holds scratch buffers and
// must not be shared between goroutines.
type Collator struct {
	c *collate.Collator
}

// NewCollator returns a collator for the given BCP 47 tag. An unknown tag
// falls back to the root collation.
func NewCollator(lang string) *Collator {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return &Collator{c: collate.New(tag, collate.IgnoreCase)}
}

// Compare orders by descending rank, then city, country and state.
func (col *Collator) Compare(a, b *Location) int {
	if a.Rank != b.Rank {
		if a.Rank > b.Rank {
			return -1
		}
		return 1
	}
	if r := col.c.CompareString(a.City, b.City); r != 0 {
		return r
	}
	if r := col.c.CompareString(a.Country, b.Country); r != 0 {
		return r
	}
	return col.c.CompareString(a.State, b.State)
}

// SortLocations sorts locs in place using Compare under lang's collation.
func SortLocations(locs []*Location, lang string) {
	col := NewCollator(lang)
	sort.SliceStable(locs, func(i, j int) bool {
		return col.Compare(locs[i], locs[j]) < 0
	})
}
