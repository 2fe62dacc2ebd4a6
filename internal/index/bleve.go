package index

import (
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	unicodetok "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/ccowmu/minutes/internal/model"
)

const (
	// forwardAnalyzer splits on Unicode word boundaries and lowercases.
	// No stop words and no stemming, so every word is prefix-addressable.
	forwardAnalyzer = "minutes_forward"

	fieldTitle   = "Title"
	fieldContent = "Content"

	batchSize = 100
)

// indexedDocument is the bleve representation of a minutes record
type indexedDocument struct {
	Title   string
	Content string
}

// BleveIndex is the advanced, in-memory bleve index
type BleveIndex struct {
	index    bleve.Index
	analyzer analysis.Analyzer
	size     int
}

// NewBleveIndex builds an in-memory bleve index over the documents
func NewBleveIndex(docs []model.Document) (*BleveIndex, error) {
	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("failed to build index mapping: %w", err)
	}

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	analyzer := idx.Mapping().AnalyzerNamed(forwardAnalyzer)
	if analyzer == nil {
		_ = idx.Close() // Ignore close error on error path
		return nil, fmt.Errorf("analyzer %q not registered", forwardAnalyzer)
	}

	bi := &BleveIndex{
		index:    idx,
		analyzer: analyzer,
		size:     len(docs),
	}

	if err := bi.addAll(docs); err != nil {
		_ = idx.Close() // Ignore close error on error path
		return nil, err
	}

	return bi, nil
}

// buildIndexMapping creates the mapping for minutes documents
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(forwardAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicodetok.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}
	indexMapping.DefaultAnalyzer = forwardAnalyzer

	docMapping := bleve.NewDocumentMapping()

	// Title: searchable, not stored (ids are all we need back)
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = forwardAnalyzer
	titleFieldMapping.Store = false
	titleFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(fieldTitle, titleFieldMapping)

	// Content: searchable body
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = forwardAnalyzer
	contentFieldMapping.Store = false
	contentFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(fieldContent, contentFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping, nil
}

// addAll indexes documents in batches
func (bi *BleveIndex) addAll(docs []model.Document) error {
	batch := bi.index.NewBatch()

	for _, doc := range docs {
		entry := indexedDocument{Title: doc.Title, Content: doc.Content}
		if err := batch.Index(string(doc.ID), entry); err != nil {
			return fmt.Errorf("failed to add document %s to batch: %w", doc.ID, err)
		}

		if batch.Size() >= batchSize {
			if err := bi.index.Batch(batch); err != nil {
				return fmt.Errorf("failed to index batch: %w", err)
			}
			batch.Reset()
		}
	}

	if batch.Size() > 0 {
		if err := bi.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to index final batch: %w", err)
		}
	}

	return nil
}

// termQuery builds the query for one whitespace-delimited term.
// The term is run through the index analyzer; every resulting token must
// prefix-match a token in the title or the content.
func (bi *BleveIndex) termQuery(term string) query.Query {
	tokens := bi.analyzer.Analyze([]byte(term))
	if len(tokens) == 0 {
		return nil
	}

	tokenQueries := make([]query.Query, 0, len(tokens))
	for _, token := range tokens {
		prefix := string(token.Term)

		titleQ := bleve.NewPrefixQuery(prefix)
		titleQ.SetField(fieldTitle)

		contentQ := bleve.NewPrefixQuery(prefix)
		contentQ.SetField(fieldContent)

		tokenQueries = append(tokenQueries, bleve.NewDisjunctionQuery(titleQ, contentQ))
	}

	if len(tokenQueries) == 1 {
		return tokenQueries[0]
	}
	return bleve.NewConjunctionQuery(tokenQueries...)
}

// Search returns ids of documents with a token starting with any query term
func (bi *BleveIndex) Search(q string) model.IDSet {
	result := model.IDSet{}

	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 || bi.size == 0 {
		return result
	}

	termQueries := make([]query.Query, 0, len(terms))
	for _, term := range terms {
		if tq := bi.termQuery(term); tq != nil {
			termQueries = append(termQueries, tq)
		}
	}
	if len(termQueries) == 0 {
		return result
	}

	size := bi.size
	if size > math.MaxInt32 {
		size = math.MaxInt32
	}
	searchRequest := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(termQueries...), size, 0, false)

	searchResults, err := bi.index.Search(searchRequest)
	if err != nil {
		// In-memory search does not fail in practice; treat as no matches
		return result
	}

	for _, hit := range searchResults.Hits {
		result.Add(model.DocID(hit.ID))
	}

	return result
}

// Kind returns "bleve"
func (bi *BleveIndex) Kind() string {
	return KindBleve
}

// Count returns the number of indexed documents
func (bi *BleveIndex) Count() (uint64, error) {
	return bi.index.DocCount()
}

// Close closes the index
func (bi *BleveIndex) Close() error {
	return bi.index.Close()
}
