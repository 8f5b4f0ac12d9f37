package suite

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache provides thread-safe LRU caching of loaded suites, keyed by file
// path. The transformer reloads the same suite on every load/save of a
// dataset; caching keeps that cheap.
type Cache struct {
	cache *lru.Cache[string, *Suite]
}

// NewCache creates a cache holding at most maxItems suites.
func NewCache(maxItems int) (*Cache, error) {
	c, err := lru.New[string, *Suite](maxItems)
	if err != nil {
		return nil, err
	}
	return &Cache{cache: c}, nil
}

// Get returns the suite at path, loading and validating it on a miss.
func (c *Cache) Get(path string) (*Suite, error) {
	if s, ok := c.cache.Get(path); ok {
		return s, nil
	}
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.cache.Add(path, s)
	return s, nil
}

// Len returns the current number of cached suites.
func (c *Cache) Len() int {
	return c.cache.Len()
}
