package highlight

import (
	"reflect"
	"strings"
	"testing"
)

func bracket(s string) string { return "[" + s + "]" }

func TestNew_FiltersShortTerms(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{name: "nil terms", terms: nil, want: nil},
		{name: "single rune dropped", terms: []string{"a", "x"}, want: nil},
		{name: "two runes kept", terms: []string{"ab"}, want: []string{"ab"}},
		{name: "multibyte single rune dropped", terms: []string{"é"}, want: nil},
		{name: "multibyte two runes kept", terms: []string{"éa"}, want: []string{"éa"}},
		{name: "longest first", terms: []string{"sched", "schedule", "ab"}, want: []string{"schedule", "sched", "ab"}},
		{name: "case folded and deduped", terms: []string{"Vote", "vote"}, want: []string{"vote"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.terms).Terms()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Terms() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		text  string
		want  string
	}{
		{
			name:  "case insensitive keeps original casing",
			terms: []string{"kernel"},
			text:  "The KERNEL and the Kernel",
			want:  "The [KERNEL] and the [Kernel]",
		},
		{
			name:  "prefix inside word",
			terms: []string{"sched"},
			text:  "Kernel Scheduling",
			want:  "Kernel [Sched]uling",
		},
		{
			name:  "longest alternative wins",
			terms: []string{"sched", "schedule"},
			text:  "schedule",
			want:  "[schedule]",
		},
		{
			name:  "regex metacharacters are literal",
			terms: []string{"c++", "(a|b)"},
			text:  "c++ and (a|b) but not cc",
			want:  "[c++] and [(a|b)] but not cc",
		},
		{
			name:  "no terms leaves text",
			terms: []string{"x"},
			text:  "xxx",
			want:  "xxx",
		},
		{
			name:  "multiple terms",
			terms: []string{"budget", "vote"},
			text:  "Budget vote passed",
			want:  "[Budget] [vote] passed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.terms).Wrap(tt.text, bracket)
			if got != tt.want {
				t.Errorf("Wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegments_Reassemble(t *testing.T) {
	h := New([]string{"ne", "ke"})
	texts := []string{"", "Kernel networking", "none", "ñandú ne", "zzz"}

	for _, text := range texts {
		var b strings.Builder
		for _, seg := range h.Segments(text) {
			b.WriteString(seg.Text)
		}
		if b.String() != text {
			t.Errorf("segments of %q reassemble to %q", text, b.String())
		}
	}
}

func TestSpans(t *testing.T) {
	h := New([]string{"ab"})
	got := h.Spans("ab xab AB")
	want := []Span{{0, 2}, {4, 6}, {7, 9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Spans() = %v, want %v", got, want)
	}
}

func TestNilHighlighter(t *testing.T) {
	var h *Highlighter
	if h.Matches("anything") {
		t.Error("nil highlighter should not match")
	}
	if got := h.Wrap("text", bracket); got != "text" {
		t.Errorf("Wrap() = %q", got)
	}
	if got := h.Segments("text"); len(got) != 1 || got[0].Match {
		t.Errorf("Segments() = %v", got)
	}
	if h.Spans("text") != nil {
		t.Error("Spans() should be nil")
	}
}
