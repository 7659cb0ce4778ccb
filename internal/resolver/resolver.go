// Package resolver finds the documentation an element inherits from its
// ancestors.
//
// The resolver is pure: it reads the symbol model and returns a SearchResult
// value. Reporting a missing match and recording provenance are left to the
// caller.
package resolver

import (
	"iter"
	"strings"

	"github.com/dshills/inheritdoc/internal/hierarchy"
	"github.com/dshills/inheritdoc/internal/registry"
	"github.com/dshills/inheritdoc/pkg/types"
)

// AncestorFunc enumerates the ancestors of an element in resolution order
type AncestorFunc func(*types.Element) iter.Seq[*types.Element]

// Resolver applies the selection policy over an element's ancestors
type Resolver struct {
	handlers  registry.HandlerLookup
	ancestors AncestorFunc
}

// Option configures a Resolver
type Option func(*Resolver)

// WithAncestors replaces the hierarchy walk
func WithAncestors(fn AncestorFunc) Option {
	return func(r *Resolver) {
		r.ancestors = fn
	}
}

// New creates a Resolver that looks up tag handlers in handlers
func New(handlers registry.HandlerLookup, opts ...Option) *Resolver {
	if handlers == nil {
		handlers = registry.Default()
	}
	r := &Resolver{
		handlers:  handlers,
		ancestors: hierarchy.Ancestors,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Request builds a search request for origin. holder is the block tag holding
// the marker, or nil when the marker sits in the main description.
func (r *Resolver) Request(origin *types.Element, holder *types.BlockTag, firstSentence bool) types.SearchRequest {
	req := types.SearchRequest{
		Origin:        origin,
		FirstSentence: firstSentence,
	}
	if holder == nil {
		return req
	}
	req.HolderTag = holder.Name
	req.TagArgument = holder.Argument
	if holder.Name == types.ParamTag {
		req.ParamPosition = origin.ParamPosition(holder.Argument)
	}
	if h, ok := r.handlers.Lookup(holder.Name); ok {
		req.Handler = &h
	}
	return req
}

// Resolve walks the ancestors of req.Origin and returns the content of the
// closest one that documents what was asked for.
func (r *Resolver) Resolve(req types.SearchRequest) types.SearchResult {
	if req.Handler != nil && !req.Handler.Inheritable {
		return types.SearchResult{Reason: types.ReasonNotInheritable}
	}

	inspected := 0
	for candidate := range r.ancestors(req.Origin) {
		inspected++
		if content, ok := match(candidate, req); ok {
			return types.SearchResult{
				Found:     true,
				Source:    candidate,
				Content:   content,
				Inspected: inspected,
			}
		}
	}

	return types.SearchResult{Reason: types.ReasonNotFound, Inspected: inspected}
}

// match returns the content candidate provides for req. Blank content never
// matches, so the walk continues past ancestors that merely re-declare a tag.
func match(candidate *types.Element, req types.SearchRequest) (string, bool) {
	if req.HolderTag == "" {
		text := candidate.Comment.Description(req.FirstSentence)
		if strings.TrimSpace(text) == "" {
			return "", false
		}
		return text, true
	}

	argument := req.TagArgument
	if name := candidate.ParamName(req.ParamPosition); name != "" {
		argument = name
	}
	tag, ok := candidate.Comment.FindTag(req.HolderTag, argument)
	if !ok {
		return "", false
	}
	return tag.Content, true
}
