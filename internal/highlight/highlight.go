// Package highlight marks query terms inside display text
package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinTermRunes is the shortest term that gets highlighted.
// Single characters would light up most of the text.
const MinTermRunes = 2

// Span is a half-open byte range of a match
type Span struct {
	Start, End int
}

// Segment is a run of text that either matched a term or did not
type Segment struct {
	Text  string
	Match bool
}

// Highlighter finds term occurrences case-insensitively.
// A nil Highlighter matches nothing.
type Highlighter struct {
	re    *regexp.Regexp
	terms []string
}

// New builds a highlighter for the given terms.
// Terms shorter than MinTermRunes are ignored; it returns nil if none remain.
func New(terms []string) *Highlighter {
	kept := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if utf8.RuneCountInString(term) < MinTermRunes || seen[term] {
			continue
		}
		seen[term] = true
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil
	}

	// Longest first so "schedule" wins over "sched" at the same offset
	sort.SliceStable(kept, func(i, j int) bool {
		return len(kept[i]) > len(kept[j])
	})

	quoted := make([]string, len(kept))
	for i, term := range kept {
		quoted[i] = regexp.QuoteMeta(term)
	}

	return &Highlighter{
		re:    regexp.MustCompile("(?i)(?:" + strings.Join(quoted, "|") + ")"),
		terms: kept,
	}
}

// Terms returns the terms actually highlighted, longest first
func (h *Highlighter) Terms() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.terms...)
}

// Spans returns the non-overlapping match ranges in text
func (h *Highlighter) Spans(text string) []Span {
	if h == nil || text == "" {
		return nil
	}

	locs := h.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}

// Segments splits text into matched and unmatched runs.
// Joining the Text of every segment yields the input unchanged.
func (h *Highlighter) Segments(text string) []Segment {
	spans := h.Spans(text)
	if len(spans) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(spans)+1)
	last := 0
	for _, span := range spans {
		if span.Start > last {
			segments = append(segments, Segment{Text: text[last:span.Start]})
		}
		segments = append(segments, Segment{Text: text[span.Start:span.End], Match: true})
		last = span.End
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Wrap renders text with every match passed through mark.
// The original casing of the matched text is kept.
func (h *Highlighter) Wrap(text string, mark func(string) string) string {
	if h == nil || mark == nil {
		return text
	}

	var b strings.Builder
	for _, seg := range h.Segments(text) {
		if seg.Match {
			b.WriteString(mark(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// Matches reports whether text contains any term
func (h *Highlighter) Matches(text string) bool {
	return h != nil && h.re.MatchString(text)
}
