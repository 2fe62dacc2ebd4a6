// Package model defines core data structures for meeting minutes
package model

import (
	"sort"
	"strings"
	"unicode"
)

// DocID identifies a document within a store.
// Sources provide slugs or positional indices; both are treated as opaque strings.
type DocID string

// Document is one searchable minutes record
type Document struct {
	ID      DocID  // Slug (e.g., "2024-03-05-general") or positional index ("7")
	Title   string // Display title, searchable
	Content string // Body text, searchable
	Excerpt string // Display excerpt (defaults to a truncation of Content)
	Date    string // ISO date (e.g., "2024-03-05"), may be empty
	Year    string // Facet value derived once at load time
	URL     string // Link to the rendered minutes page (may be relative)
}

// RawDocument is a record as produced by a source, before validation
type RawDocument struct {
	ID      string `json:"id,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt,omitempty"`
	Date    string `json:"date,omitempty"`
	Year    string `json:"year,omitempty"`
	URL     string `json:"url,omitempty"`
}

// excerptRunes is the length of generated excerpts
const excerptRunes = 160

// Identifier returns the record's id: explicit id first, then slug
func (r RawDocument) Identifier() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	return strings.TrimSpace(r.Slug)
}

// FacetYear returns the year facet value for the record.
// An explicit year attribute wins; otherwise the first 4 characters of the date are used.
func (r RawDocument) FacetYear() string {
	if y := strings.TrimSpace(r.Year); y != "" {
		return y
	}
	date := strings.TrimSpace(r.Date)
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// ToDocument converts the record into a Document. The caller validates the id.
func (r RawDocument) ToDocument() Document {
	excerpt := r.Excerpt
	if excerpt == "" {
		excerpt = Truncate(CollapseSpace(r.Content), excerptRunes)
	}
	return Document{
		ID:      DocID(r.Identifier()),
		Title:   r.Title,
		Content: r.Content,
		Excerpt: excerpt,
		Date:    strings.TrimSpace(r.Date),
		Year:    r.FacetYear(),
		URL:     r.URL,
	}
}

// SearchableText returns the text registered in the index: title and content
func (d Document) SearchableText() string {
	return d.Title + " " + d.Content
}

// DisplayDate returns the date for display, falling back to the year
func (d Document) DisplayDate() string {
	if len(d.Date) >= 10 {
		return d.Date[:10]
	}
	if d.Date != "" {
		return d.Date
	}
	return d.Year
}

// IDSet is an unordered set of document ids
type IDSet map[DocID]struct{}

// NewIDSet creates a set containing the given ids
func NewIDSet(ids ...DocID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an id
func (s IDSet) Add(id DocID) {
	s[id] = struct{}{}
}

// Has reports whether the id is in the set
func (s IDSet) Has(id DocID) bool {
	_, ok := s[id]
	return ok
}

// Union adds every id from other into s
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the ids in lexical order (for stable output and tests)
func (s IDSet) Sorted() []DocID {
	ids := make([]DocID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CollapseSpace replaces runs of whitespace with a single space
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate truncates text at a word boundary respecting UTF-8
func Truncate(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	truncated := runes[:maxRunes]

	// Use the last word boundary if it is in the last 20%
	lastSpace := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if unicode.IsSpace(truncated[i]) || truncated[i] == ',' || truncated[i] == '.' || truncated[i] == ';' {
			lastSpace = i
			break
		}
	}
	if lastSpace > int(float64(maxRunes)*0.8) {
		truncated = truncated[:lastSpace]
	}

	return string(truncated) + "..."
}
