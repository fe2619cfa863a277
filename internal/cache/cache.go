package cache

import (
	"container/list"
	"fmt"

	"ferrite/internal/decode"
)

type entry struct {
	path  string
	image *decode.Image
}

// ImageCache is a bounded store of decoded images keyed by their source
// path, evicting the least-recently-used entry on overflow. Keys are
// compared exactly; no path normalization happens here. All access must
// stay on the UI thread, so there is no internal locking.
type ImageCache struct {
	capacity int
	items    map[string]*list.Element
	lruList  *list.List
}

// New creates a cache that holds at most capacity decoded images.
// A non-positive capacity is a configuration bug, not a runtime condition,
// and panics immediately.
func New(capacity int) *ImageCache {
	if capacity < 1 {
		panic(fmt.Sprintf("cache: capacity must be positive, got %d", capacity))
	}

	return &ImageCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

// Get returns the cached image for path and promotes it to
// most-recently-used. A miss has no side effects.
func (c *ImageCache) Get(path string) (*decode.Image, bool) {
	elem, ok := c.items[path]
	if !ok {
		return nil, false
	}

	c.lruList.MoveToFront(elem)
	return elem.Value.(*entry).image, true
}

// Put inserts or replaces the image for path and promotes it. Inserting a
// new path into a full cache evicts exactly one entry, the one untouched
// longest; replacing an existing path never evicts.
func (c *ImageCache) Put(path string, img *decode.Image) {
	if elem, ok := c.items[path]; ok {
		elem.Value.(*entry).image = img
		c.lruList.MoveToFront(elem)
		return
	}

	if c.lruList.Len() >= c.capacity {
		oldest := c.lruList.Back()
		if oldest != nil {
			delete(c.items, oldest.Value.(*entry).path)
			c.lruList.Remove(oldest)
		}
	}

	ent := &entry{path: path, image: img}
	elem := c.lruList.PushFront(ent)
	c.items[path] = elem
}

// Len returns the number of resident images.
func (c *ImageCache) Len() int {
	return c.lruList.Len()
}

// Capacity returns the fixed capacity set at construction.
func (c *ImageCache) Capacity() int {
	return c.capacity
}
