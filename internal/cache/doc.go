// Package cache provides a small generic memoization cache.
//
// Cache[K, V] is a thread-safe map with a soft size limit. When an insert
// pushes it past the limit, the least recently used quarter of the entries
// is evicted. It is shared by every sprite compiled in a batch, so it must be
// safe for concurrent use:
//
//	c := cache.New[string, int](100)
//	v := c.GetOrCreate("key", func() int { return 42 })
//
// A Cache must not be copied after creation (it contains a mutex).
package cache
