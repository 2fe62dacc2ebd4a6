package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/ccowmu/minutes/internal/model"
)

func sampleRaws() []model.RawDocument {
	return []model.RawDocument{
		{Slug: "a", Title: "Kernel Scheduling", Content: "cooperative multitasking", Year: "2023"},
		{Slug: "b", Title: "Networking Basics", Content: "sockets and streams", Year: "2024"},
		{Slug: "c", Title: "Election Night", Content: "results", Date: "2024-11-05"},
	}
}

func TestLoad(t *testing.T) {
	s, err := Load(sampleRaws())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	// Original order is preserved
	want := []model.DocID{"a", "b", "c"}
	for i, id := range want {
		if s.At(i).ID != id {
			t.Errorf("At(%d).ID = %q, want %q", i, s.At(i).ID, id)
		}
		pos, ok := s.Position(id)
		if !ok || pos != i {
			t.Errorf("Position(%q) = %d, %v; want %d, true", id, pos, ok, i)
		}
	}

	doc, ok := s.Get("c")
	if !ok {
		t.Fatal("Get(c) not found")
	}
	if doc.Year != "2024" {
		t.Errorf("year derived from date = %q, want 2024", doc.Year)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) should not be found")
	}
}

func TestLoad_Empty(t *testing.T) {
	s, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil) error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if !s.All().IsEmpty() {
		t.Error("All() should be empty")
	}
	if len(s.Years()) != 0 {
		t.Error("Years() should be empty")
	}
}

func TestLoad_DuplicateID(t *testing.T) {
	raws := []model.RawDocument{
		{Slug: "a", Title: "first"},
		{Slug: "b", Title: "second"},
		{Slug: "a", Title: "again"},
	}

	s, err := Load(raws)
	if err == nil {
		t.Fatal("Load() should reject duplicate ids")
	}
	if s != nil {
		t.Error("Load() must not return a partial store")
	}

	var dupErr *DuplicateIDError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error should be a DuplicateIDError, got %v", err)
	}
	if dupErr.ID != "a" || dupErr.First != 0 || dupErr.Second != 2 {
		t.Errorf("DuplicateIDError = %+v, want id a at 0 and 2", dupErr)
	}
}

func TestLoad_DuplicateIDAfterRejectedRecord(t *testing.T) {
	raws := []model.RawDocument{
		{Title: "no id"},
		{ID: "a", Title: "first"},
		{ID: "a", Title: "again"},
	}

	_, err := Load(raws)
	var dupErr *DuplicateIDError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error should be a DuplicateIDError, got %v", err)
	}
	if dupErr.First != 1 || dupErr.Second != 2 {
		t.Errorf("DuplicateIDError = %+v, want records 1 and 2", dupErr)
	}
	if !strings.Contains(err.Error(), "records 1 and 2") {
		t.Errorf("message should cite the raw records: %v", err)
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	raws := []model.RawDocument{
		{Slug: "a"},
		{Title: "no id"},
		{Slug: "a"},
	}

	_, err := Load(raws)
	if err == nil {
		t.Fatal("Load() should fail")
	}
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("error should wrap ErrEmptyID: %v", err)
	}
	var dupErr *DuplicateIDError
	if !errors.As(err, &dupErr) {
		t.Errorf("error should also contain the duplicate: %v", err)
	}
}

func TestStore_FacetBitmap(t *testing.T) {
	s, err := Load(sampleRaws())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		year     string
		expected []uint32
	}{
		{year: "2023", expected: []uint32{0}},
		{year: "2024", expected: []uint32{1, 2}},
		{year: "1999", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			got := s.FacetBitmap(tt.year).ToArray()
			if len(got) != len(tt.expected) {
				t.Fatalf("FacetBitmap(%q) = %v, want %v", tt.year, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("FacetBitmap(%q)[%d] = %d, want %d", tt.year, i, got[i], tt.expected[i])
				}
			}
		})
	}

	// Returned bitmaps are copies
	b := s.FacetBitmap("2023")
	b.Add(2)
	if s.FacetBitmap("2023").GetCardinality() != 1 {
		t.Error("mutating a returned bitmap must not change the store")
	}
}

func TestStore_Years(t *testing.T) {
	raws := append(sampleRaws(), model.RawDocument{Slug: "undated", Title: "no date"})
	s, err := Load(raws)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	years := s.Years()
	if len(years) != 2 {
		t.Fatalf("Years() = %v, want 2 entries (empty year skipped)", years)
	}
	if years[0].Year != "2024" || years[0].Count != 2 {
		t.Errorf("Years()[0] = %+v, want 2024 x2", years[0])
	}
	if years[1].Year != "2023" || years[1].Count != 1 {
		t.Errorf("Years()[1] = %+v, want 2023 x1", years[1])
	}
}

func TestStore_DocumentsIsCopy(t *testing.T) {
	s, err := Load(sampleRaws())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	docs := s.Documents()
	docs[0].Title = "changed"
	if s.At(0).Title != "Kernel Scheduling" {
		t.Error("Documents() must return a copy")
	}
}

func TestStore_NilSafe(t *testing.T) {
	var s *Store
	if s.Len() != 0 {
		t.Error("nil store Len() should be 0")
	}
	if _, ok := s.Position("a"); ok {
		t.Error("nil store Position() should report not found")
	}
	if !s.All().IsEmpty() || !s.FacetBitmap("2024").IsEmpty() {
		t.Error("nil store bitmaps should be empty")
	}
}
