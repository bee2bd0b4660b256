// Package cache provides an in-process TTL cache with LRU eviction bounded by
// entry count and approximate byte size. Construct one per consumer and pass
// it by reference; there is no package-level instance.
package cache

import (
	"container/list"
	"encoding/json"
	"log"
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

type Options[T any] struct {
	DefaultTTL   time.Duration
	MaxEntries   int
	MaxSizeBytes int
	// Clock defaults to time.Now; tests inject a fake.
	Clock func() time.Time
	// Sizer estimates an entry's size; defaults to its JSON length.
	Sizer func(T) int
}

type Entry[T any] struct {
	Data      T
	Timestamp time.Time
	ExpiresAt time.Time
	Hits      int
	Size      int
}

type Stats struct {
	Entries   int   `json:"entries"`
	SizeBytes int   `json:"size_bytes"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

type item[T any] struct {
	key   string
	entry Entry[T]
}

type Cache[T any] struct {
	mu    sync.Mutex
	opts  Options[T]
	items map[string]*list.Element
	lru   *list.List
	size  int
	stats Stats
}

func New[T any](opts Options[T]) *Cache[T] {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Sizer == nil {
		opts.Sizer = jsonSize[T]
	}
	return &Cache[T]{
		opts:  opts,
		items: make(map[string]*list.Element),
		lru:   list.New(),
	}
}

func (c *Cache[T]) Set(key string, data T) {
	c.SetWithTTL(key, data, c.opts.DefaultTTL)
}

func (c *Cache[T]) SetWithTTL(key string, data T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.opts.DefaultTTL
	}
	size := c.opts.Sizer(data)
	if c.opts.MaxSizeBytes > 0 && size > c.opts.MaxSizeBytes {
		log.Printf("⚠️ Cache: entrada %s (%d bytes) excede o limite de %d bytes", key, size, c.opts.MaxSizeBytes)
		return
	}

	now := c.opts.Clock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	el := c.lru.PushFront(&item[T]{key: key, entry: Entry[T]{
		Data:      data,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
		Size:      size,
	}})
	c.items[key] = el
	c.size += size

	c.evict()
}

// Get returns the value for key. Expired entries are removed and reported as misses.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	it := el.Value.(*item[T])
	if !c.opts.Clock().Before(it.entry.ExpiresAt) {
		c.removeElement(el)
		c.stats.Misses++
		return zero, false
	}

	it.entry.Hits++
	c.stats.Hits++
	c.lru.MoveToFront(el)
	return it.entry.Data, true
}

// Entry returns a copy of the entry metadata without counting a hit.
func (c *Cache[T]) Entry(key string) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return Entry[T]{}, false
	}
	it := el.Value.(*item[T])
	if !c.opts.Clock().Before(it.entry.ExpiresAt) {
		c.removeElement(el)
		return Entry[T]{}, false
	}
	return it.entry, true
}

// Update replaces the data of a live entry keeping its expiry. Returns false
// when the key is missing or expired.
func (c *Cache[T]) Update(key string, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return false
	}
	it := el.Value.(*item[T])
	if !c.opts.Clock().Before(it.entry.ExpiresAt) {
		c.removeElement(el)
		return false
	}

	it.entry.Data = fn(it.entry.Data)
	size := c.opts.Sizer(it.entry.Data)
	c.size += size - it.entry.Size
	it.entry.Size = size
	c.evict()
	return true
}

// Keys lists live keys, most recently used first.
func (c *Cache[T]) Keys() []string {
	now := c.opts.Clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, c.lru.Len())
	for el := c.lru.Front(); el != nil; el = el.Next() {
		it := el.Value.(*item[T])
		if now.Before(it.entry.ExpiresAt) {
			keys = append(keys, it.key)
		}
	}
	return keys
}

func (c *Cache[T]) Has(key string) bool {
	_, ok := c.Entry(key)
	return ok
}

func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
	c.size = 0
}

// Cleanup removes every expired entry and returns how many were dropped.
func (c *Cache[T]) Cleanup() int {
	now := c.opts.Clock()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.lru.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*item[T]).entry.ExpiresAt) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.lru.Len()
	s.SizeBytes = c.size
	return s
}

// evict drops least recently used entries until both bounds hold. Caller holds mu.
func (c *Cache[T]) evict() {
	for c.lru.Len() > 0 &&
		((c.opts.MaxEntries > 0 && c.lru.Len() > c.opts.MaxEntries) ||
			(c.opts.MaxSizeBytes > 0 && c.size > c.opts.MaxSizeBytes)) {
		c.removeElement(c.lru.Back())
		c.stats.Evictions++
	}
}

func (c *Cache[T]) removeElement(el *list.Element) {
	it := el.Value.(*item[T])
	c.lru.Remove(el)
	delete(c.items, it.key)
	c.size -= it.entry.Size
}

func jsonSize[T any](v T) int {
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}
