package search

import (
	"fmt"

	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/model"
	"github.com/ccowmu/minutes/internal/store"
)

// Prepare builds the document store and its text index from raw records.
// Store validation errors are returned as-is; index fallback never fails.
func Prepare(raws []model.RawDocument, backend index.Backend) (*store.Store, index.Searcher, error) {
	st, err := store.Load(raws)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load documents: %w", err)
	}

	return st, index.Build(st.Documents(), backend), nil
}

// Engine is one loaded store and index pair.
// It is not ready until Load is called; until then Apply does nothing.
type Engine struct {
	store *store.Store
	index index.Searcher
}

// NewEngine creates an engine that is not ready yet
func NewEngine() *Engine {
	return &Engine{}
}

// Load installs a store and index, closing the previous index
func (e *Engine) Load(st *store.Store, idx index.Searcher) {
	if e.index != nil && e.index != idx {
		_ = e.index.Close() // Old in-memory index; nothing to report
	}
	e.store = st
	e.index = idx
}

// Ready reports whether documents have been loaded
func (e *Engine) Ready() bool {
	return e != nil && e.store != nil && e.index != nil
}

// Store returns the loaded store (nil before Load)
func (e *Engine) Store() *store.Store {
	if e == nil {
		return nil
	}
	return e.store
}

// Backend names the index implementation, or "" before Load
func (e *Engine) Backend() string {
	if !e.Ready() {
		return ""
	}
	return e.index.Kind()
}

// Apply runs the filter pipeline. ok is false when the engine is not ready.
func (e *Engine) Apply(facet, query string) (VisibleSet, bool) {
	if !e.Ready() {
		return VisibleSet{}, false
	}
	return Apply(e.store, e.index, facet, query), true
}

// Close releases the index
func (e *Engine) Close() error {
	if e == nil || e.index == nil {
		return nil
	}
	err := e.index.Close()
	e.index = nil
	e.store = nil
	return err
}
