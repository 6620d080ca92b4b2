// Package cache implements PkgCache: a name-keyed mapping of package
// metadata that preserves a stable iteration order across reconciliation
// and flush cycles.
package cache

import "github.com/repomgr/repoman/internal/models"

// Cache owns a set of *models.PkgMeta keyed by name. It preserves insertion
// order for entries that are only ever added, and keeps a replaced entry's
// original position when it is updated in place, so that repeated
// load->reconcile->write cycles with no net change produce identical
// iteration order (and therefore byte-identical archives, modulo
// timestamps).
type Cache struct {
	index map[string]int
	order []*models.PkgMeta
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{index: make(map[string]int)}
}

// Find returns the cached entry for name, or nil if absent.
func (c *Cache) Find(name string) *models.PkgMeta {
	if i, ok := c.index[name]; ok {
		return c.order[i]
	}
	return nil
}

// Insert adds meta, or replaces the existing entry sharing its name in
// place (preserving its position in iteration order).
func (c *Cache) Insert(meta *models.PkgMeta) {
	if i, ok := c.index[meta.Name]; ok {
		c.order[i] = meta
		return
	}
	c.index[meta.Name] = len(c.order)
	c.order = append(c.order, meta)
}

// Remove drops the entry for name, if present.
func (c *Cache) Remove(name string) {
	i, ok := c.index[name]
	if !ok {
		return
	}
	c.order = append(c.order[:i], c.order[i+1:]...)
	delete(c.index, name)
	for n, idx := range c.index {
		if idx > i {
			c.index[n] = idx - 1
		}
	}
}

// Iter returns entries in stable cache order. The returned slice must not
// be mutated by callers; use Find/Insert/Remove to change the cache.
func (c *Cache) Iter() []*models.PkgMeta {
	return c.order
}

// Len returns the number of entries in the cache.
func (c *Cache) Len() int {
	return len(c.order)
}
