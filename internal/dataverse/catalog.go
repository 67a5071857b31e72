package dataverse

import (
	"sort"
	"strings"
	"sync"

	"github.com/nhath/ezdv/internal/query"
)

// EntitySetResolver maps a logical entity name to its entity-set name. The
// boolean is false when the name is a pluralization guess.
type EntitySetResolver interface {
	EntitySetName(logicalName string) (string, bool)
}

// Catalog caches entity definitions for one environment.
type Catalog struct {
	mu       sync.RWMutex
	entities map[string]EntityMetadata
}

// NewCatalog builds a catalog from entity definitions.
func NewCatalog(entities []EntityMetadata) *Catalog {
	c := &Catalog{}
	c.Replace(entities)
	return c
}

// Replace swaps the cached definitions.
func (c *Catalog) Replace(entities []EntityMetadata) {
	m := make(map[string]EntityMetadata, len(entities))
	for _, e := range entities {
		m[e.LogicalName] = e
	}
	c.mu.Lock()
	c.entities = m
	c.mu.Unlock()
}

// Get returns the definition for logicalName.
func (c *Catalog) Get(logicalName string) (EntityMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entities[logicalName]
	return e, ok
}

// Len returns the number of cached entities.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities)
}

// EntitySetName implements EntitySetResolver. Unknown entities fall back to
// the pluralization guess.
func (c *Catalog) EntitySetName(logicalName string) (string, bool) {
	var explicit string
	if e, ok := c.Get(logicalName); ok {
		explicit = e.EntitySetName
	}
	return query.ResolveEntitySetName(logicalName, explicit)
}

// Sorted returns entities ordered by logical name.
func (c *Catalog) Sorted() []EntityMetadata {
	c.mu.RLock()
	out := make([]EntityMetadata, 0, len(c.entities))
	for _, e := range c.entities {
		out = append(out, e)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LogicalName < out[j].LogicalName })
	return out
}

// Search returns entities whose logical or display name contains term,
// case-insensitively. An empty term returns everything.
func (c *Catalog) Search(term string) []EntityMetadata {
	all := c.Sorted()
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return all
	}
	var out []EntityMetadata
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.LogicalName), term) ||
			strings.Contains(strings.ToLower(e.Label()), term) {
			out = append(out, e)
		}
	}
	return out
}
