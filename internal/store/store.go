// Package store holds the immutable set of searchable minutes documents
package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/hashicorp/go-multierror"
)

// ErrEmptyID is returned when a record yields no identifier
var ErrEmptyID = errors.New("document has an empty id")

// DuplicateIDError reports two records sharing the same id
type DuplicateIDError struct {
	ID     model.DocID
	First  int // Index of the first record with this id
	Second int // Index of the duplicate
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate document id %q (records %d and %d)", e.ID, e.First, e.Second)
}

// Store is the fixed, ordered document set of one load.
// Positions are the original source order and never change.
type Store struct {
	docs      []model.Document
	positions map[model.DocID]int
	years     map[string]*roaring.Bitmap // year -> bitmap of positions
	all       *roaring.Bitmap
}

// Load validates raw records and builds a Store.
// Every empty or duplicate id in the batch is reported; no partial store is returned.
func Load(raws []model.RawDocument) (*Store, error) {
	s := &Store{
		docs:      make([]model.Document, 0, len(raws)),
		positions: make(map[model.DocID]int, len(raws)),
		years:     make(map[string]*roaring.Bitmap),
		all:       roaring.New(),
	}

	// Raw record index per id, for error messages
	recordOf := make(map[model.DocID]int, len(raws))

	var errs error
	for i, raw := range raws {
		doc := raw.ToDocument()
		if doc.ID == "" {
			errs = multierror.Append(errs, fmt.Errorf("record %d: %w", i, ErrEmptyID))
			continue
		}
		if first, exists := recordOf[doc.ID]; exists {
			errs = multierror.Append(errs, &DuplicateIDError{ID: doc.ID, First: first, Second: i})
			continue
		}

		recordOf[doc.ID] = i
		pos := len(s.docs)
		s.docs = append(s.docs, doc)
		s.positions[doc.ID] = pos
		s.all.Add(uint32(pos))

		bitmap, ok := s.years[doc.Year]
		if !ok {
			bitmap = roaring.New()
			s.years[doc.Year] = bitmap
		}
		bitmap.Add(uint32(pos))
	}

	if errs != nil {
		return nil, fmt.Errorf("invalid document set: %w", errs)
	}

	return s, nil
}

// Len returns the number of documents
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}

// At returns the document at a position
func (s *Store) At(pos int) model.Document {
	return s.docs[pos]
}

// Get returns the document with the given id
func (s *Store) Get(id model.DocID) (model.Document, bool) {
	pos, ok := s.Position(id)
	if !ok {
		return model.Document{}, false
	}
	return s.docs[pos], true
}

// Position returns the original position of an id
func (s *Store) Position(id model.DocID) (int, bool) {
	if s == nil {
		return 0, false
	}
	pos, ok := s.positions[id]
	return pos, ok
}

// Documents returns a copy of all documents in original order
func (s *Store) Documents() []model.Document {
	if s == nil {
		return nil
	}
	docs := make([]model.Document, len(s.docs))
	copy(docs, s.docs)
	return docs
}

// All returns a bitmap with every position set. The caller owns the copy.
func (s *Store) All() *roaring.Bitmap {
	if s == nil {
		return roaring.New()
	}
	return s.all.Clone()
}

// FacetBitmap returns the positions whose year equals the facet value.
// Unknown values yield an empty bitmap. The caller owns the copy.
func (s *Store) FacetBitmap(year string) *roaring.Bitmap {
	if s == nil {
		return roaring.New()
	}
	bitmap, ok := s.years[year]
	if !ok {
		return roaring.New()
	}
	return bitmap.Clone()
}

// YearCount is a facet value with its document count
type YearCount struct {
	Year  string
	Count int
}

// Years returns the non-empty facet values, newest first
func (s *Store) Years() []YearCount {
	if s == nil {
		return nil
	}
	years := make([]YearCount, 0, len(s.years))
	for year, bitmap := range s.years {
		if year == "" {
			continue
		}
		years = append(years, YearCount{Year: year, Count: int(bitmap.GetCardinality())})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year > years[j].Year
	})
	return years
}
