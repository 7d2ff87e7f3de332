package texture

import (
	"os"
	"sync"
	"time"

	"i3d-lightbake/internal/dds"
)

// InfoCache memoizes DDS header reads. Entries are keyed by path and
// invalidated when the file's size or modification time changes.
type InfoCache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	info    dds.Info
	ok      bool
}

// NewInfoCache creates an empty cache.
func NewInfoCache() *InfoCache {
	return &InfoCache{items: make(map[string]*cacheEntry)}
}

// Inspect returns the DDS info for path. ok is false when the file is
// missing or is not a readable DDS.
func (c *InfoCache) Inspect(path string) (dds.Info, bool) {
	st, err := os.Stat(path)
	if err != nil {
		c.Invalidate(path)
		return dds.Info{}, false
	}

	// Fast path: read lock
	c.mu.RLock()
	if e, exists := c.items[path]; exists && e.size == st.Size() && e.modTime.Equal(st.ModTime()) {
		c.mu.RUnlock()
		return e.info, e.ok
	}
	c.mu.RUnlock()

	// Slow path: read from disk
	info, ok := dds.InspectFile(path)

	c.mu.Lock()
	c.items[path] = &cacheEntry{size: st.Size(), modTime: st.ModTime(), info: info, ok: ok}
	c.mu.Unlock()

	return info, ok
}

// Invalidate drops the entry for path.
func (c *InfoCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.items, path)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *InfoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
