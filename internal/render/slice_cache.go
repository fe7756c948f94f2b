package render

import (
	"image"
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"

	"rayder/internal/raycast"
)

// Cache size limits. Eviction trims to the target size in one go so it runs
// rarely and in small batches.
const (
	sliceCacheMaxSize    = 512
	sliceCacheTargetSize = 384
)

// SliceKey identifies one scaled and shaded wall column.
type SliceKey struct {
	Texture int // index into the wall texture set
	Column  int // texture column after mirroring
	Height  int // on-screen line height in pixels
	Side    raycast.Side
}

// SliceCache stores wall columns that were already scaled to a line height
// and darkened. It is safe for concurrent use.
type SliceCache struct {
	cache      map[SliceKey]*image.RGBA
	mutex      deadlock.RWMutex
	cacheOrder []SliceKey // insertion order for FIFO eviction

	hits, misses atomic.Int64
}

func NewSliceCache() *SliceCache {
	return &SliceCache{
		cache:      make(map[SliceKey]*image.RGBA, sliceCacheMaxSize),
		cacheOrder: make([]SliceKey, 0, sliceCacheMaxSize),
	}
}

// GetOrCreate returns the cached slice for key, calling create on a miss.
// hit reports whether the slice came from the cache.
func (c *SliceCache) GetOrCreate(key SliceKey, create func() *image.RGBA) (img *image.RGBA, hit bool) {
	c.mutex.RLock()
	if cached, ok := c.cache[key]; ok {
		c.mutex.RUnlock()
		c.hits.Add(1)
		return cached, true
	}
	c.mutex.RUnlock()

	img = create()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Another goroutine may have stored it while we were creating.
	if cached, ok := c.cache[key]; ok {
		c.hits.Add(1)
		return cached, true
	}
	c.misses.Add(1)

	if len(c.cache) >= sliceCacheMaxSize {
		evictCount := len(c.cacheOrder) - sliceCacheTargetSize
		if evictCount > 0 && evictCount <= len(c.cacheOrder) {
			for i := 0; i < evictCount; i++ {
				delete(c.cache, c.cacheOrder[i])
			}
			c.cacheOrder = c.cacheOrder[evictCount:]
		}
	}

	c.cache[key] = img
	c.cacheOrder = append(c.cacheOrder, key)
	return img, false
}

func (c *SliceCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cache)
}

// TakeStats returns the hit and miss counts since the last call and resets
// them.
func (c *SliceCache) TakeStats() (hits, misses int) {
	return int(c.hits.Swap(0)), int(c.misses.Swap(0))
}

func (c *SliceCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	clear(c.cache)
	c.cacheOrder = c.cacheOrder[:0]
	c.hits.Store(0)
	c.misses.Store(0)
}
