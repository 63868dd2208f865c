// Package cache provides a generic thread-safe LRU cache.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// GetOrTryCreate builds missing values under the cache lock and never
// caches a failed build, which suits GPU objects whose creation can fail
// transiently.
package cache
