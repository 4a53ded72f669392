package texart

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
)

// Cache memoizes rendered markup for long-running applications that see the
// same expressions repeatedly, such as documents with recurring inline math.
// It uses a simple LRU eviction policy when the maximum size is reached.
//
// Keys are the SHA256 of the markup together with every option that changes
// the output, so one cache can serve callers with different settings.
// Failed renders are not cached.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]*cacheEntry
	lru       *lruList
	maxSize   int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key     string
	output  string
	lruNode *lruNode
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

type lruList struct {
	head *lruNode
	tail *lruNode
	size int
}

// Global default cache for convenience
var defaultCache = NewCache(1024)

// NewCache creates a cache holding at most maxSize renderings.
// A maxSize of 0 or negative means unlimited cache size.
func NewCache(maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		lru:     &lruList{},
		maxSize: maxSize,
	}
}

// RenderCached renders input through the default cache.
func RenderCached(input string, opts ...Option) (string, error) {
	return defaultCache.Render(input, opts...)
}

// Render returns the cached rendering of input, rendering and storing it on
// a miss. This method is safe for concurrent use.
func (c *Cache) Render(input string, opts ...Option) (string, error) {
	o, err := newOptions(opts)
	if err != nil {
		return "", err
	}
	return c.render(input, o)
}

func (c *Cache) render(input string, o *options) (string, error) {
	key := cacheKey(input, o)
	if out, ok := c.get(key); ok {
		return out, nil
	}

	buf, err := o.appendRender(nil, input)
	if err != nil {
		return "", err
	}
	out := string(buf)
	c.put(key, out)
	return out, nil
}

func cacheKey(input string, o *options) string {
	h := sha256.New()
	h.Write([]byte(o.key()))
	h.Write([]byte{0})
	h.Write([]byte(input))
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

// get looks up key, moving a hit to the front of the LRU list.
// Only the LRU update takes the write lock.
func (c *Cache) get(key string) (string, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return "", false
	}

	c.mu.Lock()
	// The entry may have been evicted between the two locks.
	if cur, still := c.entries[key]; still && cur == entry {
		c.lru.moveToFront(entry.lruNode)
	}
	c.mu.Unlock()

	c.hits.Add(1)
	return entry.output, true
}

// put adds a rendering to the cache, evicting the least recently used entry
// when full.
func (c *Cache) put(key, output string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}

	node := c.lru.pushFront(key)
	c.entries[key] = &cacheEntry{
		key:     key,
		output:  output,
		lruNode: node,
	}
}

// evictLRU removes the least recently used entry from the cache
func (c *Cache) evictLRU() {
	if c.lru.tail == nil {
		return
	}

	key := c.lru.tail.key
	delete(c.entries, key)
	c.lru.remove(c.lru.tail)
	c.evictions.Add(1)
}

// Clear removes all entries from the cache.
// This method is safe for concurrent use.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lru = &lruList{}
}

// Stats returns cache statistics.
// This method is safe for concurrent use.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// CacheStats contains cache performance statistics
type CacheStats struct {
	Size      int    // Current number of cached renderings
	MaxSize   int    // Maximum cache size
	Hits      uint64 // Number of cache hits
	Misses    uint64 // Number of cache misses
	Evictions uint64 // Number of evictions
}

// HitRate returns the cache hit rate as a percentage (0-100)
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

// LRU list operations
func (l *lruList) pushFront(key string) *lruNode {
	node := &lruNode{key: key}

	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}

	l.size++
	return node
}

func (l *lruList) moveToFront(node *lruNode) {
	if node == l.head {
		return
	}

	if node.prev != nil {
		node.prev.next = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	}
	if node == l.tail {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = l.head
	l.head.prev = node
	l.head = node
}

func (l *lruList) remove(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	l.size--
}

// SetDefaultCacheSize replaces the default cache with an empty one of the
// given size. Call it once at startup.
func SetDefaultCacheSize(maxSize int) {
	defaultCache = NewCache(maxSize)
}

// DefaultCacheStats returns statistics for the default cache.
func DefaultCacheStats() CacheStats {
	return defaultCache.Stats()
}
