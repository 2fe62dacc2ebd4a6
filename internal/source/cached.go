package source

import (
	"context"
	"time"

	"github.com/ccowmu/minutes/internal/cache"
	"github.com/ccowmu/minutes/internal/logger"
	"github.com/ccowmu/minutes/internal/model"
)

// Cached serves remote sources from the local cache.
// The cache is used when it holds a copy of the same location, unless a
// refresh is requested; a failed fetch falls back to the cached copy.
// Local sources are always read directly.
type Cached struct {
	Source
	cache   *cache.Cache
	refresh bool
	now     func() time.Time
}

// WithCache wraps src with the cache in c
func WithCache(src Source, c *cache.Cache, refresh bool) *Cached {
	return &Cached{Source: src, cache: c, refresh: refresh, now: time.Now}
}

// Load returns the records, fetching only when needed
func (c *Cached) Load(ctx context.Context) ([]model.RawDocument, error) {
	if !c.Remote() || c.cache == nil {
		return c.Source.Load(ctx)
	}

	if !c.refresh && c.fresh() {
		raws, err := c.cache.ReadDocuments()
		if err == nil {
			logger.Debug("Using %d cached minutes from %s", len(raws), c.cache.DocumentsPath())
			return raws, nil
		}
		logger.Debug("Cache unusable, fetching: %v", err)
	}

	raws, err := c.Source.Load(ctx)
	if err != nil {
		if !c.sameSource() {
			return nil, err
		}
		cached, cacheErr := c.cache.ReadDocuments()
		if cacheErr != nil {
			return nil, err
		}
		fetched, _ := c.cache.LoadLastFetchTime()
		logger.Warn("Fetch failed, using cached copy from %s: %v", fetched.Local().Format(time.DateTime), err)
		return cached, nil
	}

	c.store(raws)
	return raws, nil
}

// fresh reports whether the cache was filled from this location
func (c *Cached) fresh() bool {
	return c.cache.Exists() && c.sameSource()
}

// sameSource reports whether the cached copy came from this location
func (c *Cached) sameSource() bool {
	loc, err := c.cache.LoadSource()
	return err == nil && loc == c.Location()
}

func (c *Cached) store(raws []model.RawDocument) {
	if err := c.cache.WriteDocuments(raws); err != nil {
		logger.Warn("Failed to cache minutes: %v", err)
		return
	}
	if err := c.cache.SaveSource(c.Location()); err != nil {
		logger.Warn("Failed to record cache source: %v", err)
	}
	if err := c.cache.SaveLastFetchTime(c.now()); err != nil {
		logger.Warn("Failed to save fetch time: %v", err)
	}
	logger.Debug("Cached %d minutes", len(raws))
}
