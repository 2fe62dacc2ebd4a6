package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ccowmu/minutes/internal/model"
)

// JSONSource reads the site's search index: a JSON array of records
type JSONSource struct {
	location
}

// Load decodes the array
func (s *JSONSource) Load(ctx context.Context) ([]model.RawDocument, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

func (s *JSONSource) decode(data []byte) ([]model.RawDocument, error) {
	var raws []model.RawDocument
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return finish(raws, s.baseURL), nil
}
