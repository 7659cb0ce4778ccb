package model

import (
	"fmt"
	"strings"

	"github.com/dshills/inheritdoc/internal/parser"
	"github.com/dshills/inheritdoc/pkg/types"
)

// Option configures Build
type Option func(*builder)

// WithStructuralInterfaces makes every non-interface type implement each
// interface whose method set it satisfies, as Go types do implicitly.
func WithStructuralInterfaces() Option {
	return func(b *builder) {
		b.structural = true
	}
}

type builder struct {
	structural bool
	byID       map[string]*types.Element
	order      []*types.Element
	symbols    map[*types.Element]*types.Symbol
	warnings   []string
}

// Build links symbols into a Model. Invalid symbols and dangling references
// are dropped and reported as warnings; duplicate IDs are an error.
func Build(symbols []types.Symbol, opts ...Option) (*Model, []string, error) {
	b := &builder{
		byID:    make(map[string]*types.Element, len(symbols)),
		symbols: make(map[*types.Element]*types.Symbol, len(symbols)),
	}
	for _, opt := range opts {
		opt(b)
	}

	for i := range symbols {
		sym := &symbols[i]
		if err := sym.Validate(); err != nil {
			b.warnf("%v (dropped)", err)
			continue
		}
		if _, dup := b.byID[sym.ID]; dup {
			return nil, nil, fmt.Errorf("%s: %w", sym.ID, types.ErrDuplicateID)
		}
		e := newElement(sym)
		b.byID[sym.ID] = e
		b.order = append(b.order, e)
		b.symbols[e] = sym
	}

	b.linkMethods()
	b.linkTypes()
	if b.structural {
		b.inferInterfaces()
	}
	b.linkOverrides()

	return &Model{byID: b.byID, order: b.order}, b.warnings, nil
}

func newElement(sym *types.Symbol) *types.Element {
	e := &types.Element{
		ID:        sym.ID,
		Name:      sym.Name,
		Kind:      sym.Kind,
		Package:   sym.Package,
		Interface: sym.Interface,
		Comment:   parser.ParseComment(sym.DocComment),
		Position:  sym.Start,
	}
	if len(sym.Params) > 0 {
		e.Params = append([]string(nil), sym.Params...)
	}
	if len(sym.ParamNames) > 0 {
		e.ParamNames = append([]string(nil), sym.ParamNames...)
	}
	return e
}

func (b *builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// lookup resolves a reference made from package pkg. Unqualified names are
// tried as package members first, then as plain IDs.
func (b *builder) lookup(ref, pkg string) *types.Element {
	if ref == "" {
		return nil
	}
	if pkg != "" && !strings.Contains(ref, ".") {
		if e, ok := b.byID[pkg+"."+ref]; ok {
			return e
		}
	}
	return b.byID[ref]
}

// linkMethods attaches each method to its enclosing type
func (b *builder) linkMethods() {
	for _, e := range b.order {
		if !e.IsMethod() {
			continue
		}
		sym := b.symbols[e]
		owner := b.lookup(sym.Enclosing, sym.Package)
		if owner == nil || owner.IsMethod() {
			b.warnf("%s: unresolved enclosing type %s", e.ID, sym.Enclosing)
			continue
		}
		e.Enclosing = owner
		owner.Methods = append(owner.Methods, e)
	}
}

// linkTypes resolves explicit supertypes and classifies embedded types: the
// first embedded struct becomes the superclass, embedded interfaces and any
// further structs become interfaces.
func (b *builder) linkTypes() {
	for _, e := range b.order {
		if e.IsMethod() {
			continue
		}
		sym := b.symbols[e]

		if sym.Superclass != "" {
			if super := b.supertype(e, sym.Superclass, sym.Package); super != nil {
				e.Superclass = super
			}
		}
		for _, ref := range sym.Interfaces {
			if iface := b.supertype(e, ref, sym.Package); iface != nil {
				b.addInterface(e, iface)
			}
		}
		for _, ref := range sym.Embeds {
			embedded := b.supertype(e, ref, sym.Package)
			if embedded == nil {
				continue
			}
			if !embedded.Interface && !e.Interface && e.Superclass == nil {
				e.Superclass = embedded
				continue
			}
			b.addInterface(e, embedded)
		}
	}
}

func (b *builder) supertype(e *types.Element, ref, pkg string) *types.Element {
	super := b.lookup(ref, pkg)
	switch {
	case super == nil:
		b.warnf("%s: unresolved supertype %s", e.ID, ref)
		return nil
	case super.IsMethod():
		b.warnf("%s: supertype %s is a method", e.ID, ref)
		return nil
	}
	return super
}

func (b *builder) addInterface(e, iface *types.Element) {
	for _, existing := range e.Interfaces {
		if existing == iface {
			return
		}
	}
	e.Interfaces = append(e.Interfaces, iface)
}

// inferInterfaces adds every interface a concrete type satisfies through its
// own or promoted methods, in declaration order.
func (b *builder) inferInterfaces() {
	var ifaces []*types.Element
	for _, e := range b.order {
		if !e.IsMethod() && e.Interface {
			ifaces = append(ifaces, e)
		}
	}

	for _, e := range b.order {
		if e.IsMethod() || e.Interface {
			continue
		}
		have := methodKeys(e)
		for _, iface := range ifaces {
			want := interfaceKeys(iface, map[*types.Element]bool{})
			if len(want) == 0 {
				continue
			}
			if satisfies(have, want) {
				b.addInterface(e, iface)
			}
		}
	}
}

// methodKeys collects the signature keys of t's methods and those promoted
// from its superclass chain
func methodKeys(t *types.Element) map[string]bool {
	keys := make(map[string]bool)
	seen := make(map[*types.Element]bool)
	for cur := t; cur != nil && !seen[cur]; cur = cur.Superclass {
		seen[cur] = true
		for _, m := range cur.Methods {
			keys[m.SignatureKey()] = true
		}
	}
	return keys
}

// interfaceKeys collects the method keys of iface including embedded interfaces
func interfaceKeys(iface *types.Element, seen map[*types.Element]bool) map[string]bool {
	keys := make(map[string]bool)
	if seen[iface] {
		return keys
	}
	seen[iface] = true
	for _, m := range iface.Methods {
		keys[m.SignatureKey()] = true
	}
	for _, embedded := range iface.Interfaces {
		for k := range interfaceKeys(embedded, seen) {
			keys[k] = true
		}
	}
	return keys
}

func satisfies(have, want map[string]bool) bool {
	for k := range want {
		if !have[k] {
			return false
		}
	}
	return true
}

// linkOverrides resolves explicit override links and infers the rest from
// the nearest superclass declaring a method with the same signature.
func (b *builder) linkOverrides() {
	for _, e := range b.order {
		if !e.IsMethod() {
			continue
		}
		sym := b.symbols[e]
		if sym.Overrides != "" {
			target := b.lookup(sym.Overrides, sym.Package)
			if target == nil || !target.IsMethod() || target == e {
				b.warnf("%s: unresolved overridden method %s", e.ID, sym.Overrides)
				continue
			}
			e.Overrides = target
			continue
		}
		if e.Enclosing == nil {
			continue
		}
		key := e.SignatureKey()
		seen := map[*types.Element]bool{e.Enclosing: true}
		for super := e.Enclosing.Superclass; super != nil && !seen[super]; super = super.Superclass {
			seen[super] = true
			if m := super.Method(key); m != nil {
				e.Overrides = m
				break
			}
		}
	}
}
