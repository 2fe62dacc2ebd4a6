// Package present keeps the visible surface in sync with the filter pipeline.
// Elements are plain state holders that a host (the TUI or the CLI printer)
// renders; every method is safe to call on a nil element.
package present

import (
	"github.com/ccowmu/minutes/internal/highlight"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/store"
)

// TextNode is display text that can be highlighted and restored.
// The pristine text is captured on first highlight and every later
// highlight is computed from it.
type TextNode struct {
	text     string
	pristine string
	saved    bool
}

// NewTextNode creates a node showing text
func NewTextNode(text string) *TextNode {
	return &TextNode{text: text}
}

// Text returns what the node currently shows
func (n *TextNode) Text() string {
	if n == nil {
		return ""
	}
	return n.text
}

// Pristine returns the text before any highlighting
func (n *TextNode) Pristine() string {
	if n == nil {
		return ""
	}
	if n.saved {
		return n.pristine
	}
	return n.text
}

// Highlighted reports whether the node differs from its pristine text
func (n *TextNode) Highlighted() bool {
	return n != nil && n.saved && n.text != n.pristine
}

// Highlight marks matches of h in the pristine text
func (n *TextNode) Highlight(h *highlight.Highlighter, mark func(string) string) {
	if n == nil {
		return
	}
	if !n.saved {
		n.pristine = n.text
		n.saved = true
	}
	n.text = h.Wrap(n.pristine, mark)
}

// Restore puts back the pristine text
func (n *TextNode) Restore() {
	if n == nil || !n.saved {
		return
	}
	n.text = n.pristine
}

// Region is an element that can be shown or hidden
type Region struct {
	hidden bool
}

// Show makes the region visible
func (r *Region) Show() {
	if r != nil {
		r.hidden = false
	}
}

// Hide hides the region
func (r *Region) Hide() {
	if r != nil {
		r.hidden = true
	}
}

// Visible reports whether the region is shown
func (r *Region) Visible() bool {
	return r != nil && !r.hidden
}

// Card is one rendered document
type Card struct {
	Region
	ID       model.DocID
	Position int
	Year     string
	Date     string
	URL      string
	Title    *TextNode
	Excerpt  *TextNode
}

// NewCard renders a document as a card
func NewCard(pos int, doc model.Document) *Card {
	return &Card{
		ID:       doc.ID,
		Position: pos,
		Year:     doc.Year,
		Date:     doc.DisplayDate(),
		URL:      doc.URL,
		Title:    NewTextNode(doc.Title),
		Excerpt:  NewTextNode(doc.Excerpt),
	}
}

// NewCards renders every stored document in store order
func NewCards(st *store.Store) []*Card {
	cards := make([]*Card, st.Len())
	for i := range cards {
		cards[i] = NewCard(i, st.At(i))
	}
	return cards
}

// Counter displays an integer
type Counter struct {
	value int
}

// Set updates the counter
func (c *Counter) Set(v int) {
	if c != nil {
		c.value = v
	}
}

// Value returns the counter value
func (c *Counter) Value() int {
	if c == nil {
		return 0
	}
	return c.value
}

// Input is the search text field
type Input struct {
	value   string
	focused bool
}

// SetValue replaces the field contents
func (i *Input) SetValue(v string) {
	if i != nil {
		i.value = v
	}
}

// Value returns the field contents
func (i *Input) Value() string {
	if i == nil {
		return ""
	}
	return i.value
}

// Focus gives the field keyboard focus
func (i *Input) Focus() {
	if i != nil {
		i.focused = true
	}
}

// Blur removes keyboard focus
func (i *Input) Blur() {
	if i != nil {
		i.focused = false
	}
}

// Focused reports whether the field has focus
func (i *Input) Focused() bool {
	return i != nil && i.focused
}

// Select is the year facet selector
type Select struct {
	value   string
	options []string
}

// SetOptions replaces the choices; "all" is always first
func (s *Select) SetOptions(years []store.YearCount) {
	if s == nil {
		return
	}
	s.options = make([]string, 0, len(years)+1)
	s.options = append(s.options, "all")
	for _, y := range years {
		s.options = append(s.options, y.Year)
	}
}

// Options returns the available choices
func (s *Select) Options() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.options...)
}

// SetValue selects a choice
func (s *Select) SetValue(v string) {
	if s != nil {
		s.value = v
	}
}

// Value returns the selected choice
func (s *Select) Value() string {
	if s == nil {
		return ""
	}
	return s.value
}

// Next cycles to the following option, wrapping around
func (s *Select) Next() string {
	if s == nil || len(s.options) == 0 {
		return s.Value()
	}
	for i, opt := range s.options {
		if opt == s.value {
			s.value = s.options[(i+1)%len(s.options)]
			return s.value
		}
	}
	s.value = s.options[0]
	return s.value
}

// ViewToggle shows which view mode is active
type ViewToggle struct {
	active model.ViewMode
}

// SetActive moves the active indicator
func (v *ViewToggle) SetActive(mode model.ViewMode) {
	if v != nil {
		v.active = mode
	}
}

// Active returns the indicated mode
func (v *ViewToggle) Active() model.ViewMode {
	if v == nil {
		return ""
	}
	return v.active
}

// Container holds the cards and knows its layout
type Container struct {
	Region
	layout model.ViewMode
}

// Show makes the container visible
func (c *Container) Show() {
	if c != nil {
		c.Region.Show()
	}
}

// Hide hides the container
func (c *Container) Hide() {
	if c != nil {
		c.Region.Hide()
	}
}

// Visible reports whether the container is shown
func (c *Container) Visible() bool {
	return c != nil && c.Region.Visible()
}

// SetLayout switches between card grid and list
func (c *Container) SetLayout(mode model.ViewMode) {
	if c != nil {
		c.layout = mode
	}
}

// Layout returns the current layout
func (c *Container) Layout() model.ViewMode {
	if c == nil {
		return ""
	}
	return c.layout
}

// Page is the whole surface. Any element may be nil.
type Page struct {
	SearchInput  *Input
	FacetSelect  *Select
	ViewToggle   *ViewToggle
	Results      *Container
	NoResults    *Region
	VisibleCount *Counter
	TotalCount   *Counter
	Cards        []*Card
}

// NewPage creates a page with every element present
func NewPage() *Page {
	return &Page{
		SearchInput:  &Input{},
		FacetSelect:  &Select{value: "all", options: []string{"all"}},
		ViewToggle:   &ViewToggle{},
		Results:      &Container{},
		NoResults:    &Region{hidden: true},
		VisibleCount: &Counter{},
		TotalCount:   &Counter{},
	}
}

// VisibleCards returns the shown cards in store order
func (p *Page) VisibleCards() []*Card {
	if p == nil {
		return nil
	}
	visible := make([]*Card, 0, len(p.Cards))
	for _, card := range p.Cards {
		if card != nil && card.Visible() {
			visible = append(visible, card)
		}
	}
	return visible
}
