package index

import (
	"strings"

	"github.com/ccowmu/minutes/internal/model"
)

// LiteralIndex answers queries by case-insensitive substring containment.
// It is the degraded mode used when bleve is unavailable.
type LiteralIndex struct {
	ids   []model.DocID
	texts []string // lowercased "title content", parallel to ids
}

// NewLiteralIndex registers each document's lowercased searchable text
func NewLiteralIndex(docs []model.Document) *LiteralIndex {
	li := &LiteralIndex{
		ids:   make([]model.DocID, 0, len(docs)),
		texts: make([]string, 0, len(docs)),
	}
	for _, doc := range docs {
		li.ids = append(li.ids, doc.ID)
		li.texts = append(li.texts, strings.ToLower(doc.SearchableText()))
	}
	return li
}

// Search returns ids whose text contains any of the query terms
func (li *LiteralIndex) Search(query string) model.IDSet {
	result := model.IDSet{}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return result
	}

	for i, text := range li.texts {
		for _, term := range terms {
			if strings.Contains(text, term) {
				result.Add(li.ids[i])
				break
			}
		}
	}

	return result
}

// Kind returns "literal"
func (li *LiteralIndex) Kind() string {
	return KindLiteral
}

// Close is a no-op
func (li *LiteralIndex) Close() error {
	return nil
}
