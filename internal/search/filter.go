package search

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/store"
)

// FacetAll disables the year facet
const FacetAll = "all"

// VisibleSet is the ordered subset of documents passing facet and search.
// Order is always the original store order.
type VisibleSet struct {
	IDs       []model.DocID
	Positions []int // Store positions, parallel to IDs
	Total     int   // Store size
	Terms     []string
}

// Len returns the number of visible documents
func (v VisibleSet) Len() int {
	return len(v.IDs)
}

// Empty reports whether nothing is visible
func (v VisibleSet) Empty() bool {
	return len(v.IDs) == 0
}

// Contains reports whether an id is visible
func (v VisibleSet) Contains(id model.DocID) bool {
	for _, visible := range v.IDs {
		if visible == id {
			return true
		}
	}
	return false
}

// IsFacetAll reports whether the facet value disables year filtering
func IsFacetAll(facet string) bool {
	return facet == "" || facet == FacetAll
}

// Apply computes the visible set for a facet value and query.
// A document is visible iff it passes the facet predicate AND the search
// predicate; an empty query or facet "all" passes everything.
func Apply(st *store.Store, idx index.Searcher, facet, query string) VisibleSet {
	visible := VisibleSet{Total: st.Len()}
	if st.Len() == 0 {
		return visible
	}

	var positions *roaring.Bitmap
	if IsFacetAll(facet) {
		positions = st.All()
	} else {
		positions = st.FacetBitmap(facet)
	}

	terms := Terms(query)
	if len(terms) > 0 {
		matched := roaring.New()
		for id := range Evaluate(idx, query) {
			if pos, ok := st.Position(id); ok {
				matched.Add(uint32(pos))
			}
		}
		positions.And(matched)
		visible.Terms = terms
	}

	// Bitmap iteration is ascending, which is store order
	visible.IDs = make([]model.DocID, 0, positions.GetCardinality())
	visible.Positions = make([]int, 0, positions.GetCardinality())
	it := positions.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		visible.Positions = append(visible.Positions, pos)
		visible.IDs = append(visible.IDs, st.At(pos).ID)
	}

	return visible
}
