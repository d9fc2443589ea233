// Package library holds the in-memory, indexed projection of the MPD
// library: artists, albums, items and playlist containers, each exposing a
// dotted-name property map so the query engine and the wire codec can both
// address them without a type switch per tag.
package library

import (
	"sync"

	"github.com/rbergstrom/euphony/internal/query"
)

// Entity is anything that can live inside an IndexedCollection: it has a
// stable id within its snapshot and can enumerate the dotted properties the
// query engine and tag registry index it by.
type Entity interface {
	ID() uint32
	Properties() map[string]interface{}
}

// IndexedCollection is an insertion-ordered sequence of T plus a secondary
// index (property name -> value -> set of positions), built by asking each
// element to enumerate its properties at insert time. It implements
// query.Index directly so an AST built by internal/query can be evaluated
// against it with no adapter.
type IndexedCollection[T Entity] struct {
	mu      sync.RWMutex
	items   []T
	byID    map[uint32]int
	indexes map[string]map[interface{}][]int
}

// NewIndexedCollection returns an empty collection.
func NewIndexedCollection[T Entity]() *IndexedCollection[T] {
	return &IndexedCollection[T]{
		byID:    make(map[uint32]int),
		indexes: make(map[string]map[interface{}][]int),
	}
}

// Add appends item, assigning it the next insertion position and indexing
// every property it exposes.
func (c *IndexedCollection[T]) Add(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := len(c.items)
	c.items = append(c.items, item)
	c.byID[item.ID()] = pos

	for prop, value := range item.Properties() {
		values, ok := c.indexes[prop]
		if !ok {
			values = make(map[interface{}][]int)
			c.indexes[prop] = values
		}
		values[value] = append(values[value], pos)
	}
}

// Len reports the number of items in the collection.
func (c *IndexedCollection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Items returns the items in insertion order. The returned slice must be
// treated as read-only by the caller.
func (c *IndexedCollection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// ByID returns the item with the given id, if present.
func (c *IndexedCollection[T]) ByID(id uint32) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[pos], true
}

// FirstMatching returns the first item (in insertion order) whose indexed
// properties match every key/value pair in props.
func (c *IndexedCollection[T]) FirstMatching(props map[string]interface{}) (T, bool) {
	hits := make(map[int]int)
	first := -1
	for _, pos := range c.get(props) {
		hits[pos]++
		if hits[pos] == len(props) && (first < 0 || pos < first) {
			first = pos
		}
	}
	if first < 0 {
		var zero T
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[first], true
}

// get returns the positions matching each prop/value pair. The positions
// for each matching (prop, value) pair are concatenated, not intersected,
// so callers that want an AND across multiple properties should use Query
// instead.
func (c *IndexedCollection[T]) get(props map[string]interface{}) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []int
	for prop, value := range props {
		if values, ok := c.indexes[prop]; ok {
			if positions, ok := values[value]; ok {
				ids = append(ids, positions...)
			}
		}
	}
	return ids
}

// Query evaluates a parsed expression over the collection and returns the
// matching items in insertion order.
func (c *IndexedCollection[T]) Query(expr query.Expr) []T {
	set := expr.Eval(c)

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(set))
	// Preserve insertion order rather than the arbitrary set iteration order.
	for pos := 0; pos < len(c.items); pos++ {
		if _, ok := set[pos]; ok {
			out = append(out, c.items[pos])
		}
	}
	return out
}

// Lookup implements query.Index: the set of positions where property==value.
func (c *IndexedCollection[T]) Lookup(property string, value interface{}) query.IDSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values, ok := c.indexes[property]
	if !ok {
		return query.IDSet{}
	}
	positions, ok := values[value]
	if !ok {
		return query.IDSet{}
	}
	return query.NewIDSet(positions...)
}

// Scan implements query.Index: a linear scan for wildcard matches, since
// those can't be served by the equality index.
func (c *IndexedCollection[T]) Scan(property string, match func(string) bool) query.IDSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := query.IDSet{}
	for pos, item := range c.items {
		v, ok := item.Properties()[property]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if match(s) {
			out[pos] = struct{}{}
		}
	}
	return out
}

// All implements query.Index: every position currently in the collection.
func (c *IndexedCollection[T]) All() query.IDSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(query.IDSet, len(c.items))
	for pos := range c.items {
		out[pos] = struct{}{}
	}
	return out
}
