// Package hierarchy enumerates the ancestors of documentable elements.
//
// The walk order is "closest in each branch before the next branch": for a
// type, its superclass and everything above it comes before its first
// interface, which comes before its second interface, and so on. For a
// method, the method it overrides comes first, followed by the same-signature
// methods of the enclosing type's ancestors.
//
// Every sequence is lazy, restartable and deduplicated. Each ancestor is
// emitted at most once per walk, so diamonds are collapsed and cyclic
// metadata still terminates.
package hierarchy

import (
	"iter"

	"github.com/dshills/inheritdoc/pkg/types"
)

// Ancestors returns the ancestor candidates of e in resolution order.
// Methods yield methods; types yield types. The origin itself is never
// yielded.
func Ancestors(e *types.Element) iter.Seq[*types.Element] {
	return func(yield func(*types.Element) bool) {
		if e == nil {
			return
		}
		w := newWalk(e)
		if e.IsMethod() {
			w.method(e, yield)
			return
		}
		w.typ(e, yield)
	}
}

// OverrideChain follows the direct override links of m: the method it
// overrides, the method that one overrides, and so on.
func OverrideChain(m *types.Element) iter.Seq[*types.Element] {
	return func(yield func(*types.Element) bool) {
		if m == nil {
			return
		}
		w := newWalk(m)
		for o := m.Overrides; o != nil; o = o.Overrides {
			if !w.mark(o) {
				return
			}
			if !yield(o) {
				return
			}
		}
	}
}

// TypeAncestors returns the supertypes of t: superclass first, then each
// interface in declaration order, each expanded depth-first.
func TypeAncestors(t *types.Element) iter.Seq[*types.Element] {
	return func(yield func(*types.Element) bool) {
		if t == nil {
			return
		}
		newWalk(t).typ(t, yield)
	}
}

// walk carries the visited sets of a single traversal
type walk struct {
	visited map[*types.Element]struct{}
	// types already searched for a signature while mapping a method walk
	// onto type hierarchies
	expanded map[expansion]struct{}
}

type expansion struct {
	owner *types.Element
	key   string
}

func newWalk(origin *types.Element) *walk {
	w := &walk{
		visited:  make(map[*types.Element]struct{}),
		expanded: make(map[expansion]struct{}),
	}
	w.visited[origin] = struct{}{}
	return w
}

// mark records e as visited. It returns false if e was already seen.
func (w *walk) mark(e *types.Element) bool {
	if _, seen := w.visited[e]; seen {
		return false
	}
	w.visited[e] = struct{}{}
	return true
}

// typ emits the supertypes of t depth-first. It returns false once the
// consumer stops iterating.
func (w *walk) typ(t *types.Element, yield func(*types.Element) bool) bool {
	for _, super := range supertypes(t) {
		if !w.mark(super) {
			continue
		}
		if !yield(super) {
			return false
		}
		if !w.typ(super, yield) {
			return false
		}
	}
	return true
}

// method emits the ancestors of method m: its direct override (expanded
// recursively), then the same-signature methods found in the enclosing
// type's hierarchy.
func (w *walk) method(m *types.Element, yield func(*types.Element) bool) bool {
	if o := m.Overrides; o != nil && w.mark(o) {
		if !yield(o) {
			return false
		}
		if !w.method(o, yield) {
			return false
		}
	}

	owner := m.Enclosing
	if owner == nil {
		return true
	}
	return w.mapTypes(owner, m.SignatureKey(), yield)
}

// mapTypes walks the supertypes of owner, mapping each to its method with
// the given key. Types without such a method are passed through.
func (w *walk) mapTypes(owner *types.Element, key string, yield func(*types.Element) bool) bool {
	exp := expansion{owner: owner, key: key}
	if _, done := w.expanded[exp]; done {
		return true
	}
	w.expanded[exp] = struct{}{}

	for _, super := range supertypes(owner) {
		if candidate := super.Method(key); candidate != nil && w.mark(candidate) {
			if !yield(candidate) {
				return false
			}
			if !w.method(candidate, yield) {
				return false
			}
		}
		if !w.mapTypes(super, key, yield) {
			return false
		}
	}
	return true
}

// supertypes lists the direct supertypes of t in search order
func supertypes(t *types.Element) []*types.Element {
	out := make([]*types.Element, 0, 1+len(t.Interfaces))
	if t.Superclass != nil {
		out = append(out, t.Superclass)
	}
	for _, iface := range t.Interfaces {
		if iface != nil {
			out = append(out, iface)
		}
	}
	return out
}
