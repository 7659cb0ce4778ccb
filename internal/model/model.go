// Package model links flat symbol declarations into the immutable element
// graph the resolver walks.
//
// Symbols reference each other by ID (YAML models, storage) or, for Go
// sources, by embedded type name. Build resolves those references, parses
// doc comments and infers the override links a declaration leaves implicit.
// Once built, a Model is read-only and safe for concurrent use.
package model

import (
	"github.com/dshills/inheritdoc/pkg/types"
)

// Model is a linked, read-only set of elements
type Model struct {
	byID  map[string]*types.Element
	order []*types.Element
}

// Lookup returns the element with the given ID
func (m *Model) Lookup(id string) (*types.Element, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// Elements returns all elements in declaration order
func (m *Model) Elements() []*types.Element {
	out := make([]*types.Element, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of elements
func (m *Model) Len() int {
	return len(m.order)
}
