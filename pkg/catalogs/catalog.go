// Package catalogs provides the core catalog system for grimoire
// configuration elements (agents, skills, commands). A Catalog is an
// ordered, invariant-enforcing collection of entries; the Store persists
// one manifest per kind with atomic, corruption-free writes.
//
// Example usage:
//
//	store := catalogs.NewStore("/home/user/.grimoire/catalog")
//	cat, err := store.Load(catalogs.KindSkill)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, entry := range cat.List() {
//	    fmt.Printf("Skill: %s\n", entry.Name)
//	}
package catalogs

import (
	"fmt"
	"sync"

	"github.com/agentstation/grimoire/pkg/errors"
)

// Catalog is a concurrent safe, ordered collection of entries of one
// kind. Insertion order is preserved for stable listing. Invariants:
// no two entries share an ID, and (scope, path) determines at most one
// entry.
type Catalog struct {
	mu      sync.RWMutex
	kind    Kind
	entries []*Entry
	byID    map[string]*Entry
	byKey   map[Key]*Entry
}

// NewCatalog creates an empty catalog for the given kind.
func NewCatalog(kind Kind) *Catalog {
	return &Catalog{
		kind:  kind,
		byID:  make(map[string]*Entry),
		byKey: make(map[Key]*Entry),
	}
}

// Kind returns the element kind this catalog holds.
func (c *Catalog) Kind() Kind {
	return c.kind
}

// Add appends an entry, enforcing the uniqueness invariants. The entry
// is deep-copied so callers cannot mutate catalog state afterwards.
func (c *Catalog) Add(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.Kind != c.kind {
		return fmt.Errorf("entry kind %s does not match catalog kind %s", entry.Kind, c.kind)
	}
	if entry.ID == "" {
		return fmt.Errorf("entry %q has no ID", entry.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[entry.ID]; exists {
		return fmt.Errorf("entry with ID %s %w", entry.ID, errors.ErrAlreadyExists)
	}
	key := entry.Key()
	if _, exists := c.byKey[key]; exists {
		return fmt.Errorf("entry for %s:%s %w", key.Scope, key.Path, errors.ErrAlreadyExists)
	}

	clone := entry.Clone()
	c.entries = append(c.entries, clone)
	c.byID[clone.ID] = clone
	c.byKey[key] = clone
	return nil
}

// Get returns the entry with the given ID, if present.
func (c *Catalog) Get(id string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return entry.Clone(), true
}

// GetByKey returns the entry with the given (scope, path) key, if present.
func (c *Catalog) GetByKey(key Key) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	return entry.Clone(), true
}

// Delete removes an entry by ID. Returns an error if it doesn't exist.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.byID[id]
	if !exists {
		return &errors.NotFoundError{Resource: "entry", Kind: c.kind.String(), Name: id}
	}

	delete(c.byID, id)
	delete(c.byKey, entry.Key())
	for i, e := range c.entries {
		if e.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all entries in insertion order. Entries are deep copies.
func (c *Catalog) List() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Entry, len(c.entries))
	for i, entry := range c.entries {
		out[i] = entry.Clone()
	}
	return out
}

// ListScope returns the entries belonging to one scope, in insertion order.
func (c *Catalog) ListScope(scope Scope) []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Entry
	for _, entry := range c.entries {
		if entry.Scope == scope {
			out = append(out, entry.Clone())
		}
	}
	return out
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Resolve finds an entry by name. When scope is nil and the name exists
// in several scopes, the highest-priority scope wins (local > project >
// global). When scope is non-nil, only that scope is consulted; a miss
// is a NotFoundError, never a fallback.
func (c *Catalog) Resolve(name string, scope *Scope) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *Entry
	for _, entry := range c.entries {
		if entry.Name != name {
			continue
		}
		if scope != nil {
			if entry.Scope == *scope {
				return entry.Clone(), nil
			}
			continue
		}
		if best == nil || entry.Scope.Priority() > best.Scope.Priority() {
			best = entry
		}
	}
	if best != nil {
		return best.Clone(), nil
	}
	return nil, &errors.NotFoundError{Resource: "entry", Kind: c.kind.String(), Name: name}
}

// ReplaceWith replaces this catalog's contents with the given entries,
// preserving their order. The replacement is validated against the
// uniqueness invariants before any mutation happens, so a failed
// replace leaves the catalog untouched.
func (c *Catalog) ReplaceWith(entries []*Entry) error {
	byID := make(map[string]*Entry, len(entries))
	byKey := make(map[Key]*Entry, len(entries))
	ordered := make([]*Entry, 0, len(entries))

	for _, entry := range entries {
		if entry == nil {
			return fmt.Errorf("entry cannot be nil")
		}
		if entry.Kind != c.kind {
			return fmt.Errorf("entry kind %s does not match catalog kind %s", entry.Kind, c.kind)
		}
		if entry.ID == "" {
			return fmt.Errorf("entry %q has no ID", entry.Name)
		}
		if _, dup := byID[entry.ID]; dup {
			return fmt.Errorf("duplicate entry ID %s", entry.ID)
		}
		key := entry.Key()
		if _, dup := byKey[key]; dup {
			return fmt.Errorf("duplicate entry for %s:%s", key.Scope, key.Path)
		}
		clone := entry.Clone()
		byID[clone.ID] = clone
		byKey[key] = clone
		ordered = append(ordered, clone)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = ordered
	c.byID = byID
	c.byKey = byKey
	return nil
}

// Copy creates a deep copy of the catalog.
func (c *Catalog) Copy() *Catalog {
	out := NewCatalog(c.kind)
	// List already deep-copies entries.
	_ = out.ReplaceWith(c.List())
	return out
}
