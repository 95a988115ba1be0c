package world

import "container/list"

// SegmentCache is an LRU of loaded GMAP segment Levels, built on
// container/list: front of the list is most recently used, back is next to
// evict.
type SegmentCache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type cacheEntry struct {
	name  string
	level *Level
}

// NewSegmentCache returns an empty cache holding at most capacity segments.
func NewSegmentCache(capacity int) *SegmentCache {
	return &SegmentCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached level for name, promoting it to most-recently-used.
func (c *SegmentCache) Get(name string) (*Level, bool) {
	el, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).level, true
}

// Put inserts or replaces the cached level for name, evicting the least
// recently used entry if the cache is at capacity.
func (c *SegmentCache) Put(name string, level *Level) {
	if el, ok := c.entries[name]; ok {
		el.Value.(*cacheEntry).level = level
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{name: name, level: level})
	c.entries[name] = el

	if c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).name)
		}
	}
}

// Len returns the number of segments currently cached.
func (c *SegmentCache) Len() int {
	return c.order.Len()
}
