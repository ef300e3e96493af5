package feature

import (
	"context"
	"fmt"
	"sync"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

// Terrain and population values are static, so store lookups are cached
// per coordinate cell. Coordinates are quantized to three decimal places
// (~100 m) so nearby requests share entries.

// CachedTerrainStore wraps a TerrainStore with an in-memory LRU cache.
type CachedTerrainStore struct {
	inner TerrainStore
	cache *lruCache[Terrain]
}

// NewCachedTerrainStore creates a cache decorator around a terrain store.
func NewCachedTerrainStore(inner TerrainStore, maxEntries int) *CachedTerrainStore {
	return &CachedTerrainStore{inner: inner, cache: newLRUCache[Terrain](maxEntries)}
}

func (c *CachedTerrainStore) Terrain(ctx context.Context, loc domain.Location) (Terrain, bool, error) {
	key := cellKey(loc)
	if t, ok := c.cache.get(key); ok {
		return t, true, nil
	}
	t, found, err := c.inner.Terrain(ctx, loc)
	if err != nil || !found {
		// Misses are not cached so backfilled data becomes visible.
		return t, found, err
	}
	c.cache.put(key, t)
	return t, true, nil
}

// CachedPopulationStore wraps a PopulationStore with an in-memory LRU cache.
type CachedPopulationStore struct {
	inner PopulationStore
	cache *lruCache[float64]
}

// NewCachedPopulationStore creates a cache decorator around a population store.
func NewCachedPopulationStore(inner PopulationStore, maxEntries int) *CachedPopulationStore {
	return &CachedPopulationStore{inner: inner, cache: newLRUCache[float64](maxEntries)}
}

func (c *CachedPopulationStore) Density(ctx context.Context, loc domain.Location) (float64, bool, error) {
	key := cellKey(loc)
	if d, ok := c.cache.get(key); ok {
		return d, true, nil
	}
	d, found, err := c.inner.Density(ctx, loc)
	if err != nil || !found {
		return d, found, err
	}
	c.cache.put(key, d)
	return d, true, nil
}

func cellKey(loc domain.Location) string {
	return fmt.Sprintf("%.3f,%.3f", loc.Lat, loc.Lon)
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
