package fetch

import (
	"container/list"
	"encoding/json"
	"sync"
)

// DefaultCapacity is the number of fragments kept when no capacity is given
const DefaultCapacity = 100

// Cache is a bounded fragment cache with first-in, first-out eviction.
// Reads do not refresh an entry's position: the oldest-inserted key is
// always the next to go, whether or not it was read recently.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List               // front = oldest insertion
	entries  map[string]*list.Element // key -> element holding *cacheEntry
}

type cacheEntry struct {
	key   string
	value json.RawMessage
}

// NewCache creates a cache holding at most capacity entries
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get returns the cached value for key without affecting eviction order
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		return el.Value.(*cacheEntry).value, true
	}
	return nil, false
}

// Put stores value under key. Replacing an existing key keeps its original
// insertion position. When a new key arrives at capacity, the oldest key is
// evicted first and returned.
func (c *Cache) Put(key string, value json.RawMessage) (evicted string, didEvict bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		return "", false
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		entry := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, entry.key)
		evicted, didEvict = entry.key, true
	}

	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, value: value})
	return evicted, didEvict
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the maximum number of entries
func (c *Cache) Capacity() int { return c.capacity }

// Keys returns the cached keys, oldest insertion first
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*cacheEntry).key)
	}
	return keys
}

// Clear removes every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}
