package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// GridCache provides thread-safe caching of decoded grids to avoid redundant
// disk reads.
//
// Grids are keyed by the exact path string passed to Load. Because labeling and
// filtering rewrite grids in place, Load always hands out a private copy; the
// cached original is never exposed.
//
// # Memory Management
//
// Cached grids remain in memory until explicitly removed via Evict() or Clear().
type GridCache struct {
	mu    sync.RWMutex
	grids map[string]*Grid
	opts  ImportOptions
}

// NewGridCache creates an empty cache that imports non-PGM files with opts.
func NewGridCache(opts ImportOptions) *GridCache {
	return &GridCache{
		grids: make(map[string]*Grid),
		opts:  opts,
	}
}

// Load returns a copy of the grid stored at path, reading it on first use.
//
// Parameters:
//   - path: File path of a P5, PNG or JPEG image. It is used verbatim as the
//     cache key, so relative and absolute spellings are cached separately.
//
// Returns:
//   - *Grid: A private copy the caller may modify in place.
//   - error: Non-nil if the file cannot be read or decoded.
//
// Callers that overwrite a cached file must Evict it.
func (c *GridCache) Load(path string) (*Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g.Clone(), nil
	}
	c.mu.RUnlock()

	g, err := ImportFile(path, c.opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g.Clone(), nil
}

// Evict removes path from the cache. Unknown paths are ignored.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// Clear removes every cached grid.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*Grid)
	c.mu.Unlock()
}

// Len returns the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}

// GridInfo describes a raster file without exposing its pixels.
type GridInfo struct {
	Rows          int    `json:"rows"`
	Cols          int    `json:"cols"`
	Levels        int    `json:"levels"`
	Binary        bool   `json:"binary"`
	Format        string `json:"format"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// LoadGridInfo loads path through cache and reports its size, gray levels and
// source format. The format is taken from the file extension.
func LoadGridInfo(cache *GridCache, path string) (*GridInfo, error) {
	g, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "jpg":
		format = "jpeg"
	case "":
		format = "unknown"
	}

	return &GridInfo{
		Rows:          g.Rows(),
		Cols:          g.Cols(),
		Levels:        g.Levels,
		Binary:        g.Levels == 1,
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
