// Package search evaluates free-text queries and combines them with the year facet
package search

import (
	"strings"
	"unicode"

	"github.com/ccowmu/minutes/internal/index"
	"github.com/ccowmu/minutes/internal/model"
)

// Terms normalizes a query into its search terms.
// The query is trimmed and lowercased, split on whitespace, and leading or
// trailing punctuation is stripped from each term. Terms that were pure
// punctuation are dropped, and duplicates are removed keeping first-seen order.
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(fields) == 0 {
		return nil
	}

	terms := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		term := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}

	if len(terms) == 0 {
		return nil
	}
	return terms
}

// IsEmptyQuery reports whether the query has no search terms
func IsEmptyQuery(query string) bool {
	return len(Terms(query)) == 0
}

// Evaluate returns the ids matching any term of the query.
// Each term is looked up separately and the results are unioned, so
// "alpha beta" matches documents containing alpha OR beta.
func Evaluate(idx index.Searcher, query string) model.IDSet {
	result := model.IDSet{}
	if idx == nil {
		return result
	}

	for _, term := range Terms(query) {
		result.Union(idx.Search(term))
	}

	return result
}
