package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccowmu/minutes/internal/model"
)

const (
	documentsFileName = "documents.json"
	lastFetchFileName = ".last_fetch_time"
	sourceFileName    = ".source"
)

// ErrNotCached is returned when no documents have been cached yet
var ErrNotCached = errors.New("no cached minutes, run 'minutes --sync' first")

// Cache keeps the last fetched copy of the minutes
type Cache struct {
	dir string
}

// New creates a new Cache instance
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.dir
}

// EnsureDir ensures the cache directory exists
func (c *Cache) EnsureDir() error {
	return os.MkdirAll(c.dir, 0755)
}

// DocumentsPath returns the full path to the cached documents file
func (c *Cache) DocumentsPath() string {
	return filepath.Join(c.dir, documentsFileName)
}

// WriteDocuments replaces the cached documents.
// The file is written to a temporary name and renamed so readers never see
// a partial copy.
func (c *Cache) WriteDocuments(raws []model.RawDocument) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, documentsFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.DocumentsPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}

// ReadDocuments reads the cached documents
func (c *Cache) ReadDocuments() ([]model.RawDocument, error) {
	data, err := os.ReadFile(c.DocumentsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}

	var raws []model.RawDocument
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	return raws, nil
}

// Stats returns the number of cached documents
func (c *Cache) Stats() (int, error) {
	raws, err := c.ReadDocuments()
	if err != nil {
		return 0, err
	}
	return len(raws), nil
}

// Exists checks if the documents file exists
func (c *Cache) Exists() bool {
	_, err := os.Stat(c.DocumentsPath())
	return err == nil
}

// SaveLastFetchTime saves the last successful fetch timestamp
func (c *Cache) SaveLastFetchTime(t time.Time) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data := []byte(t.Format(time.RFC3339))
	if err := os.WriteFile(filepath.Join(c.dir, lastFetchFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to save fetch timestamp: %w", err)
	}

	return nil
}

// LoadLastFetchTime loads the last successful fetch timestamp.
// Returns zero time if nothing was fetched yet.
func (c *Cache) LoadLastFetchTime() (time.Time, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, lastFetchFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read fetch timestamp: %w", err)
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse fetch timestamp: %w", err)
	}

	return t, nil
}

// SaveSource records which location the cached documents came from
func (c *Cache) SaveSource(location string) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, sourceFileName), []byte(location), 0644); err != nil {
		return fmt.Errorf("failed to save source: %w", err)
	}

	return nil
}

// LoadSource returns the location the cache was filled from, or "" if unknown
func (c *Cache) LoadSource() (string, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, sourceFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read source: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
