// Package index provides the text index over minutes documents.
// An in-memory bleve index is used when available; a literal substring
// index serves queries in degraded mode otherwise.
package index

import (
	"errors"

	"github.com/ccowmu/minutes/internal/model"
)

// ErrIndexUnavailable indicates the advanced index backend could not be initialised
var ErrIndexUnavailable = errors.New("advanced index unavailable")

// Backend selects which index implementation Build tries
type Backend string

const (
	// BackendAuto tries bleve and falls back to literal matching
	BackendAuto Backend = "auto"
	// BackendBleve is the same as auto but logs the fallback as a warning
	BackendBleve Backend = "bleve"
	// BackendLiteral skips bleve entirely
	BackendLiteral Backend = "literal"
)

// Kind names reported by Searcher.Kind
const (
	KindBleve   = "bleve"
	KindLiteral = "literal"
)

// Searcher answers set-membership queries over an index built once
type Searcher interface {
	// Search returns the ids whose text has a token starting with the query
	// (or with any of its whitespace-separated terms). Empty queries match nothing.
	Search(query string) model.IDSet
	// Kind names the implementation ("bleve" or "literal")
	Kind() string
	// Close releases index resources
	Close() error
}

// ParseBackend validates a configured backend name
func ParseBackend(s string) (Backend, bool) {
	switch b := Backend(s); b {
	case BackendAuto, BackendBleve, BackendLiteral:
		return b, true
	}
	return "", false
}
