package preprocessor

import (
	"maps"
	"slices"
	"sync"
	"weak"

	"github.com/yaklabco/duic/pkg/source"
)

// Item is an entry in an IncludeCache.
type Item interface {
	// ShouldSkip reports whether a file with this entry's identity can be
	// skipped when reached again.
	ShouldSkip() bool
}

// GuardItem records that a file is include-guarded. It does not keep the
// file alive: once the file is collected the guard no longer applies.
type GuardItem struct {
	target weak.Pointer[source.File]

	// Macro is the guard macro, or "" for #pragma once.
	Macro string
}

// NewGuardItem creates a skip guard for file.
func NewGuardItem(file *source.File, macro string) *GuardItem {
	return &GuardItem{target: weak.Make(file), Macro: macro}
}

// ShouldSkip implements Item.
func (g *GuardItem) ShouldSkip() bool {
	return g.target.Value() != nil
}

// Target returns the guarded file, or nil if it has been collected.
func (g *GuardItem) Target() *source.File {
	return g.target.Value()
}

// IncludeCache maps a file identity to what is known about it. Each
// identity is populated once; the cache is safe for concurrent use.
type IncludeCache struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewIncludeCache creates an empty cache.
func NewIncludeCache() *IncludeCache {
	return &IncludeCache{items: make(map[string]Item)}
}

// Store records item under key unless key is already present. It reports
// whether the item was stored.
func (c *IncludeCache) Store(key string, item Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; exists {
		return false
	}
	c.items[key] = item
	return true
}

// Lookup returns the entry for key.
func (c *IncludeCache) Lookup(key string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	return item, ok
}

// ShouldSkip reports whether key has an entry that asks to be skipped.
func (c *IncludeCache) ShouldSkip(key string) bool {
	item, ok := c.Lookup(key)
	return ok && item.ShouldSkip()
}

// Len returns the number of entries.
func (c *IncludeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Keys returns the cached identities in sorted order.
func (c *IncludeCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.items))
}
