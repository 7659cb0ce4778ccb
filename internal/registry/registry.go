// Package registry maps documentation tag names to handler descriptors.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/inheritdoc/pkg/types"
)

// HandlerLookup is the read side of a registry
type HandlerLookup interface {
	Lookup(tagName string) (types.HandlerDescriptor, bool)
}

// Registry holds handler descriptors keyed by tag name. It is safe for
// concurrent use; resolution workers only read from it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]types.HandlerDescriptor
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		handlers: make(map[string]types.HandlerDescriptor),
	}
}

// Default returns a registry preloaded with the standard block tags.
// Only tags whose content describes the member itself can be inherited.
func Default() *Registry {
	r := New()
	for _, name := range []string{"param", "return", "throws", "exception"} {
		r.Register(name, true)
	}
	for _, name := range []string{"author", "deprecated", "see", "since", "version", "serial", "serialData", "serialField", "hidden"} {
		r.Register(name, false)
	}
	return r
}

// Register adds or replaces the descriptor for a tag name. A leading "@" is
// ignored.
func (r *Registry) Register(tagName string, inheritable bool) {
	name := normalize(tagName)
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = types.HandlerDescriptor{Name: name, Inheritable: inheritable}
}

// Lookup returns the descriptor registered for tagName
func (r *Registry) Lookup(tagName string) (types.HandlerDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[normalize(tagName)]
	return h, ok
}

// Names returns the registered tag names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(tagName string) string {
	return strings.TrimPrefix(strings.TrimSpace(tagName), "@")
}
