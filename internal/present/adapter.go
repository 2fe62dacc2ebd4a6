package present

import (
	"github.com/ccowmu/minutes/internal/highlight"
	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/logger"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/search"
	"github.com/ccowmu/minutes/internal/store"
)

// FilterState is what the user has asked for.
// Only ViewMode outlives the session.
type FilterState struct {
	SearchText string
	Facet      string
	ViewMode   model.ViewMode
}

// Options configures an Adapter
type Options struct {
	// DefaultView applies when no valid preference is stored
	DefaultView model.ViewMode
	// Mark wraps highlighted text; nil leaves text unmarked
	Mark func(string) string
}

// Adapter applies filter results to a Page
type Adapter struct {
	engine      *search.Engine
	page        *Page
	prefs       PreferenceStore
	mark        func(string) string
	defaultView model.ViewMode
	state       FilterState
	visible     search.VisibleSet
}

// NewAdapter creates an adapter over an engine that may not be loaded yet
func NewAdapter(engine *search.Engine, page *Page, prefs PreferenceStore, opts Options) *Adapter {
	def := opts.DefaultView
	if !def.Valid() {
		def = model.DefaultViewMode
	}
	if engine == nil {
		engine = search.NewEngine()
	}

	return &Adapter{
		engine:      engine,
		page:        page,
		prefs:       prefs,
		mark:        opts.Mark,
		defaultView: def,
		state: FilterState{
			Facet:    search.FacetAll,
			ViewMode: def,
		},
	}
}

// State returns the current filter state
func (a *Adapter) State() FilterState {
	return a.state
}

// Visible returns the last computed visible set
func (a *Adapter) Visible() search.VisibleSet {
	return a.visible
}

// Page returns the surface this adapter drives
func (a *Adapter) Page() *Page {
	return a.page
}

// Engine returns the filter engine
func (a *Adapter) Engine() *search.Engine {
	return a.engine
}

// Ready reports whether documents are loaded
func (a *Adapter) Ready() bool {
	return a.engine.Ready()
}

// Load installs a freshly built store and index, re-renders the cards and
// re-applies the current filter state
func (a *Adapter) Load(st *store.Store, idx index.Searcher) {
	a.engine.Load(st, idx)

	if a.page != nil {
		a.page.Cards = NewCards(st)
		a.page.FacetSelect.SetOptions(st.Years())
		a.page.TotalCount.Set(st.Len())
	}

	// A facet that vanished on reload falls back to all years
	if !search.IsFacetAll(a.state.Facet) && st.FacetBitmap(a.state.Facet).IsEmpty() {
		a.state.Facet = search.FacetAll
	}
	if a.page != nil {
		a.page.FacetSelect.SetValue(a.state.Facet)
	}

	a.Refresh()
}

// Refresh recomputes the visible set and updates the page.
// It returns false without touching anything when the engine is not ready.
func (a *Adapter) Refresh() bool {
	visible, ok := a.engine.Apply(a.state.Facet, a.state.SearchText)
	if !ok {
		return false
	}
	a.visible = visible

	if a.page == nil {
		return true
	}

	a.page.VisibleCount.Set(visible.Len())
	a.page.TotalCount.Set(visible.Total)

	if visible.Empty() {
		a.page.Results.Hide()
		a.page.NoResults.Show()
	} else {
		a.page.NoResults.Hide()
		a.page.Results.Show()
	}

	shown := make(map[int]bool, visible.Len())
	for _, pos := range visible.Positions {
		shown[pos] = true
	}

	h := highlight.New(visible.Terms)
	for pos, card := range a.page.Cards {
		if card == nil {
			continue
		}
		if !shown[pos] {
			card.Hide()
			continue
		}
		card.Show()
		if h != nil {
			card.Title.Highlight(h, a.mark)
			card.Excerpt.Highlight(h, a.mark)
		} else {
			card.Title.Restore()
			card.Excerpt.Restore()
		}
	}

	return true
}

// SetQuery changes the search text and refreshes
func (a *Adapter) SetQuery(text string) bool {
	a.state.SearchText = text
	if a.page != nil {
		a.page.SearchInput.SetValue(text)
	}
	return a.Refresh()
}

// SetFacet changes the year facet and refreshes.
// Empty selects all years.
func (a *Adapter) SetFacet(facet string) bool {
	if facet == "" {
		facet = search.FacetAll
	}
	a.state.Facet = facet
	if a.page != nil {
		a.page.FacetSelect.SetValue(facet)
	}
	return a.Refresh()
}

// CycleFacet moves the facet selector to its next option
func (a *Adapter) CycleFacet() bool {
	if a.page == nil || a.page.FacetSelect == nil {
		return false
	}
	return a.SetFacet(a.page.FacetSelect.Next())
}

// ClearSearch empties the search, removes highlights and refocuses the input
func (a *Adapter) ClearSearch() bool {
	if a.page != nil {
		a.page.SearchInput.Focus()
	}
	return a.SetQuery("")
}

// ClearAll resets both the search and the year facet
func (a *Adapter) ClearAll() bool {
	a.state.Facet = search.FacetAll
	if a.page != nil {
		a.page.FacetSelect.SetValue(search.FacetAll)
	}
	return a.ClearSearch()
}

// Escape handles the escape key; it clears the search only while the
// search input has focus and reports whether it did
func (a *Adapter) Escape() bool {
	if a.page == nil || !a.page.SearchInput.Focused() {
		return false
	}
	a.ClearSearch()
	return true
}

// SwitchView applies a view mode and stores it as the preference.
// Invalid modes are ignored.
func (a *Adapter) SwitchView(mode model.ViewMode) {
	if !mode.Valid() {
		return
	}
	a.applyView(mode)

	if a.prefs == nil {
		return
	}
	if err := a.prefs.Set(ViewPreferenceKey, string(mode)); err != nil {
		logger.Warn("Failed to save view preference: %v", err)
	}
}

// ToggleView flips between card and list
func (a *Adapter) ToggleView() model.ViewMode {
	mode := a.state.ViewMode.Toggle()
	a.SwitchView(mode)
	return mode
}

// RestorePreferences applies the stored view mode, or the default when the
// stored value is missing or not a known mode
func (a *Adapter) RestorePreferences() model.ViewMode {
	mode := a.defaultView

	if a.prefs != nil {
		stored, err := a.prefs.Get(ViewPreferenceKey)
		if err != nil {
			logger.Debug("Failed to read view preference: %v", err)
		} else if parsed, ok := model.ParseViewMode(stored); ok {
			mode = parsed
		} else if stored != "" {
			logger.Debug("Ignoring stored view preference %q", stored)
		}
	}

	a.applyView(mode)
	return mode
}

func (a *Adapter) applyView(mode model.ViewMode) {
	a.state.ViewMode = mode
	if a.page == nil {
		return
	}
	a.page.ViewToggle.SetActive(mode)
	a.page.Results.SetLayout(mode)
}

// Close releases the engine
func (a *Adapter) Close() error {
	return a.engine.Close()
}
