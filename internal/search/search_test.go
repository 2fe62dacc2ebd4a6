package search

import (
	"reflect"
	"testing"

	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/store"
)

func sampleRaws() []model.RawDocument {
	return []model.RawDocument{
		{Slug: "a", Title: "Kernel Scheduling", Content: "cooperative multitasking", Year: "2023"},
		{Slug: "b", Title: "Networking Basics", Content: "sockets and streams", Year: "2024"},
		{Slug: "c", Title: "Election Night", Content: "results and scheduling", Year: "2024"},
		{Slug: "d", Title: "Pizza Social", Content: "no agenda", Year: "2022"},
	}
}

// fakeSearcher returns canned results per term
type fakeSearcher struct {
	results map[string][]model.DocID
	calls   []string
	closed  bool
}

func (f *fakeSearcher) Search(term string) model.IDSet {
	f.calls = append(f.calls, term)
	return model.NewIDSet(f.results[term]...)
}

func (f *fakeSearcher) Kind() string { return "fake" }

func (f *fakeSearcher) Close() error {
	f.closed = true
	return nil
}

func prepare(t *testing.T, backend index.Backend) (*store.Store, index.Searcher) {
	t.Helper()
	st, idx, err := Prepare(sampleRaws(), backend)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return st, idx
}

func TestTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty", query: "", want: nil},
		{name: "whitespace only", query: "   \t ", want: nil},
		{name: "single term lowercased", query: "Kernel", want: []string{"kernel"}},
		{name: "surrounding whitespace trimmed", query: "  sched  ", want: []string{"sched"}},
		{name: "multiple terms", query: "alpha beta", want: []string{"alpha", "beta"}},
		{name: "punctuation stripped", query: "\"budget,\" (vote)", want: []string{"budget", "vote"}},
		{name: "inner punctuation kept", query: "e-mail", want: []string{"e-mail"}},
		{name: "pure punctuation dropped", query: "-- !!", want: nil},
		{name: "duplicates removed", query: "vote Vote VOTE", want: []string{"vote"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Terms(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Terms(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestIsEmptyQuery(t *testing.T) {
	if !IsEmptyQuery("  ") {
		t.Error("whitespace query should be empty")
	}
	if IsEmptyQuery("x") {
		t.Error("non-blank query should not be empty")
	}
}

func TestEvaluate_UnionOfTerms(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]model.DocID{
		"alpha": {"a"},
		"beta":  {"b", "c"},
	}}

	got := Evaluate(fake, "Alpha beta")
	want := []model.DocID{"a", "b", "c"}
	if !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("Evaluate() = %v, want %v", got.Sorted(), want)
	}
	if !reflect.DeepEqual(fake.calls, []string{"alpha", "beta"}) {
		t.Errorf("searcher calls = %v", fake.calls)
	}
}

func TestEvaluate_NilIndex(t *testing.T) {
	if got := Evaluate(nil, "anything"); len(got) != 0 {
		t.Errorf("Evaluate(nil) = %v, want empty", got)
	}
}

func TestApply(t *testing.T) {
	for _, backend := range []index.Backend{index.BackendBleve, index.BackendLiteral} {
		t.Run(string(backend), func(t *testing.T) {
			st, idx := prepare(t, backend)

			tests := []struct {
				name  string
				facet string
				query string
				want  []model.DocID
			}{
				{name: "everything", facet: FacetAll, query: "", want: []model.DocID{"a", "b", "c", "d"}},
				{name: "empty facet means all", facet: "", query: "  ", want: []model.DocID{"a", "b", "c", "d"}},
				{name: "prefix search", facet: FacetAll, query: "sched", want: []model.DocID{"a", "c"}},
				{name: "facet only", facet: "2024", query: "", want: []model.DocID{"b", "c"}},
				{name: "facet and search", facet: "2024", query: "sched", want: []model.DocID{"c"}},
				{name: "facet excludes match", facet: "2022", query: "sched", want: []model.DocID{}},
				{name: "unknown facet", facet: "1999", query: "", want: []model.DocID{}},
				{name: "union keeps store order", facet: FacetAll, query: "pizza kernel", want: []model.DocID{"a", "d"}},
				{name: "no match", facet: FacetAll, query: "zzz", want: []model.DocID{}},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got := Apply(st, idx, tt.facet, tt.query)
					if !reflect.DeepEqual(got.IDs, tt.want) {
						t.Errorf("Apply(%q, %q) = %v, want %v", tt.facet, tt.query, got.IDs, tt.want)
					}
					if got.Total != 4 {
						t.Errorf("Total = %d, want 4", got.Total)
					}
					if len(got.Positions) != len(got.IDs) {
						t.Fatalf("Positions and IDs differ in length: %d vs %d", len(got.Positions), len(got.IDs))
					}
					for i, pos := range got.Positions {
						if st.At(pos).ID != got.IDs[i] {
							t.Errorf("Positions[%d] = %d does not point at %q", i, pos, got.IDs[i])
						}
					}
				})
			}
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	st, idx := prepare(t, index.BackendBleve)

	first := Apply(st, idx, "2024", "sched")
	second := Apply(st, idx, "2024", "sched")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Apply is not idempotent: %+v vs %+v", first, second)
	}
}

func TestApply_DoesNotMutateStore(t *testing.T) {
	st, idx := prepare(t, index.BackendLiteral)

	_ = Apply(st, idx, "2024", "sched")
	got := Apply(st, idx, FacetAll, "")
	if got.Len() != 4 {
		t.Errorf("store bitmaps were mutated: visible %d, want 4", got.Len())
	}
}

func TestApply_TermsRecorded(t *testing.T) {
	st, idx := prepare(t, index.BackendLiteral)

	if got := Apply(st, idx, FacetAll, ""); got.Terms != nil {
		t.Errorf("Terms for empty query = %v, want nil", got.Terms)
	}
	if got := Apply(st, idx, FacetAll, "Kernel!"); !reflect.DeepEqual(got.Terms, []string{"kernel"}) {
		t.Errorf("Terms = %v, want [kernel]", got.Terms)
	}
}

func TestApply_EmptyStore(t *testing.T) {
	st, err := store.Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := Apply(st, index.NewLiteralIndex(nil), FacetAll, "x")
	if !got.Empty() || got.Total != 0 {
		t.Errorf("Apply on empty store = %+v", got)
	}
}

func TestVisibleSet_Contains(t *testing.T) {
	v := VisibleSet{IDs: []model.DocID{"a", "c"}}
	if !v.Contains("c") || v.Contains("b") {
		t.Errorf("Contains() wrong for %v", v.IDs)
	}
}

func TestPrepare_RejectsDuplicates(t *testing.T) {
	raws := append(sampleRaws(), model.RawDocument{Slug: "a", Title: "again"})
	if _, _, err := Prepare(raws, index.BackendLiteral); err == nil {
		t.Fatal("Prepare() should fail on duplicate ids")
	}
}

func TestEngine(t *testing.T) {
	e := NewEngine()
	if e.Ready() {
		t.Fatal("new engine should not be ready")
	}
	if _, ok := e.Apply(FacetAll, "x"); ok {
		t.Error("Apply before Load should report not ready")
	}
	if e.Backend() != "" {
		t.Errorf("Backend() before Load = %q", e.Backend())
	}

	st, err := store.Load(sampleRaws())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first := &fakeSearcher{results: map[string][]model.DocID{"pizza": {"d"}}}
	e.Load(st, first)

	if !e.Ready() || e.Store() != st || e.Backend() != "fake" {
		t.Fatal("engine not loaded correctly")
	}
	got, ok := e.Apply(FacetAll, "pizza")
	if !ok || !reflect.DeepEqual(got.IDs, []model.DocID{"d"}) {
		t.Errorf("Apply() = %v, %v", got.IDs, ok)
	}

	// Reload closes the previous index
	second := &fakeSearcher{}
	e.Load(st, second)
	if !first.closed {
		t.Error("previous index should be closed on reload")
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !second.closed || e.Ready() {
		t.Error("Close should release the index and reset readiness")
	}
}

func TestEngine_NilSafe(t *testing.T) {
	var e *Engine
	if e.Ready() || e.Store() != nil {
		t.Error("nil engine should be inert")
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
}
