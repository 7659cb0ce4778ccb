// Package assembler turns resolver results into rendered documentation and
// expands inheritance markers across whole comments.
package assembler

import (
	"errors"

	"github.com/dshills/inheritdoc/pkg/types"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// Output is the rendered form of a search result
type Output struct {
	Content string
	Source  *types.Element // Ancestor the content came from, nil when empty
}

// IsEmpty reports whether nothing was inherited
func (o Output) IsEmpty() bool {
	return o.Source == nil
}

// Assembler renders search results
type Assembler struct {
	renderer Renderer
}

// New creates an Assembler using renderer, or plain text when nil
func New(renderer Renderer) *Assembler {
	if renderer == nil {
		renderer = PlainRenderer{}
	}
	return &Assembler{renderer: renderer}
}

// Renderer returns the configured renderer
func (a *Assembler) Renderer() Renderer {
	return a.renderer
}

// Assemble renders a found result. A result that was not found yields an
// empty Output; reporting it is the caller's job.
func (a *Assembler) Assemble(result types.SearchResult) Output {
	if !result.Found {
		return Output{}
	}
	return Output{
		Content: a.renderer.Render(result.Content),
		Source:  result.Source,
	}
}

// RenderedTag is a block tag after marker expansion
type RenderedTag struct {
	Name     string
	Argument string
	Content  string
}

// ElementDoc is the effective documentation of one element. It is owned by
// the caller; ancestors are never written to.
type ElementDoc struct {
	Element *types.Element
	Summary string
	Body    string
	Tags    []RenderedTag

	// Overrides records the ancestor that last supplied inherited content
	Overrides *types.Element

	// Resolutions lists every search performed for this element, in order
	Resolutions []Resolution
}

// Resolution records one search made while expanding an element
type Resolution struct {
	Tag      string // Empty for the main description
	Argument string
	Implicit bool // Inherited because the comment was empty, not because of a marker
	Result   types.SearchResult
}

// AttachProvenance records out's source as the ancestor this element
// overrides. Empty outputs leave the record unchanged.
func (d *ElementDoc) AttachProvenance(out Output) {
	if out.Source != nil {
		d.Overrides = out.Source
	}
}

// Inherited reports whether any content came from an ancestor
func (d *ElementDoc) Inherited() bool {
	return d.Overrides != nil
}
