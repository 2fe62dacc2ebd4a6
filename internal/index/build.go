package index

import (
	"fmt"

	"github.com/ccowmu/minutes/internal/logger"
	"github.com/ccowmu/minutes/internal/model"
)

// openAdvanced constructs the advanced backend; replaced in tests
var openAdvanced = func(docs []model.Document) (Searcher, error) {
	return NewBleveIndex(docs)
}

// Build selects an index implementation once and builds it over docs.
// If the advanced backend cannot be initialised the literal index is returned;
// this is degraded service, not a failure, so Build never returns an error.
func Build(docs []model.Document, backend Backend) Searcher {
	if backend == BackendLiteral {
		logger.Debug("Search backend: literal (configured)")
		return NewLiteralIndex(docs)
	}

	advanced, err := openAdvanced(docs)
	if err != nil {
		diag := fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
		if backend == BackendBleve {
			logger.Warn("%v; using literal substring search", diag)
		} else {
			logger.Debug("%v; using literal substring search", diag)
		}
		return NewLiteralIndex(docs)
	}

	logger.Debug("Search backend: %s (%d documents)", advanced.Kind(), len(docs))
	return advanced
}
