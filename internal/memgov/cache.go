package memgov

import (
	"container/list"
	"time"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

// TextureEntry is one cached texture. Immutable apart from LastAccess.
type TextureEntry struct {
	Path       string
	Handle     any
	SizeBytes  uint64
	LastAccess time.Time
}

// CacheStats tracks cache effectiveness counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// TextureCache maps texture paths to loaded handles under a byte budget.
// Eviction removes least-recently-accessed entries until the cache is back
// under budget or empty. A single entry larger than the whole budget is the
// documented exception: it survives alone until something else displaces it.
type TextureCache struct {
	budgetBytes  uint64
	currentBytes uint64
	entries      map[string]*list.Element
	order        *list.List // front = most recently accessed
	stats        CacheStats
}

func NewTextureCache(budgetBytes uint64) *TextureCache {
	return &TextureCache{
		budgetBytes: budgetBytes,
		entries:     make(map[string]*list.Element),
		order:       list.New(),
	}
}

// Get returns the handle for path, refreshing its recency.
func (c *TextureCache) Get(path string) (any, bool) {
	elem, ok := c.entries[path]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	c.order.MoveToFront(elem)
	entry := elem.Value.(*TextureEntry)
	entry.LastAccess = time.Now()

	return entry.Handle, true
}

// Put inserts or replaces an entry, then evicts until under budget. The
// byte count may exceed the budget by at most this one insertion before the
// eviction pass runs.
func (c *TextureCache) Put(path string, handle any, sizeBytes uint64) {
	if elem, ok := c.entries[path]; ok {
		entry := elem.Value.(*TextureEntry)
		c.currentBytes -= entry.SizeBytes
		entry.Handle = handle
		entry.SizeBytes = sizeBytes
		entry.LastAccess = time.Now()
		c.currentBytes += sizeBytes
		c.order.MoveToFront(elem)
	} else {
		entry := &TextureEntry{
			Path:       path,
			Handle:     handle,
			SizeBytes:  sizeBytes,
			LastAccess: time.Now(),
		}
		c.entries[path] = c.order.PushFront(entry)
		c.currentBytes += sizeBytes
	}

	c.evictToBudget()
}

// evictToBudget drops least-recently-accessed entries until under budget or
// only the newest entry remains.
func (c *TextureCache) evictToBudget() {
	for c.currentBytes > c.budgetBytes && c.order.Len() > 1 {
		c.evictOldest()
	}
}

func (c *TextureCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}

	entry := elem.Value.(*TextureEntry)
	c.order.Remove(elem)
	delete(c.entries, entry.Path)
	c.currentBytes -= entry.SizeBytes
	c.stats.Evictions++

	logger.Debug().Str("path", entry.Path).Uint64("size", entry.SizeBytes).Msg("Evicted texture")
}

// Clear drops every entry. Used by the aggressive budget-pressure path.
func (c *TextureCache) Clear() {
	evicted := c.order.Len()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.currentBytes = 0
	c.stats.Evictions += uint64(evicted)
}

// CurrentBytes returns the bytes currently held.
func (c *TextureCache) CurrentBytes() uint64 {
	return c.currentBytes
}

// Len returns the number of cached entries.
func (c *TextureCache) Len() int {
	return c.order.Len()
}

// Stats returns a copy of the effectiveness counters.
func (c *TextureCache) Stats() CacheStats {
	return c.stats
}
