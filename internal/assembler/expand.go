package assembler

import (
	"strings"

	"github.com/dshills/inheritdoc/internal/diagnostics"
	"github.com/dshills/inheritdoc/internal/resolver"
	"github.com/dshills/inheritdoc/pkg/types"
)

// Expander computes the effective documentation of elements by replacing
// inheritance markers with content from their ancestors.
//
// A blank main description is inherited implicitly. Markers in the
// description or in block tags are resolved explicitly and reported when
// they cannot be satisfied. Inherited content that itself contains markers
// is expanded relative to the ancestor it came from.
type Expander struct {
	resolver  *resolver.Resolver
	assembler *Assembler
	reporter  diagnostics.Reporter
}

// NewExpander creates an Expander. A nil reporter discards diagnostics.
func NewExpander(r *resolver.Resolver, a *Assembler, reporter diagnostics.Reporter) *Expander {
	if a == nil {
		a = New(nil)
	}
	if reporter == nil {
		reporter = diagnostics.Discard
	}
	return &Expander{resolver: r, assembler: a, reporter: reporter}
}

// Expand returns the effective documentation of e. It only reads from the
// model; the returned ElementDoc belongs to the caller.
func (x *Expander) Expand(e *types.Element) *ElementDoc {
	doc := &ElementDoc{Element: e}
	chain := map[*types.Element]bool{e: true}
	c := e.Comment

	var body, summary string
	if strings.TrimSpace(c.Body) == "" {
		body, summary = x.inheritDescription(doc, chain)
	} else {
		body = x.expandText(doc, e, c.Body, false, chain, true)
		summary = x.expandText(doc, e, c.FirstSentence, true, chain, false)
	}

	render := x.assembler.Renderer()
	doc.Body = render.Render(body)
	doc.Summary = render.Render(summary)

	for _, tag := range c.Tags {
		content := tag.Content
		if types.HasMarker(content) {
			holder := tag
			content = x.expandTag(doc, e, &holder, chain, true)
		}
		doc.Tags = append(doc.Tags, RenderedTag{
			Name:     tag.Name,
			Argument: tag.Argument,
			Content:  render.Render(content),
		})
	}

	return doc
}

// inheritDescription fills a blank description from the closest documented
// ancestor. A miss is not reported: most undocumented elements have nothing
// to inherit.
func (x *Expander) inheritDescription(doc *ElementDoc, chain map[*types.Element]bool) (string, string) {
	e := doc.Element
	res := x.resolver.Resolve(x.resolver.Request(e, nil, false))
	doc.Resolutions = append(doc.Resolutions, Resolution{Implicit: true, Result: res})
	if !res.Found {
		return "", ""
	}
	doc.AttachProvenance(x.assembler.Assemble(res))

	next := with(chain, res.Source)
	body := x.expandText(doc, res.Source, res.Content, false, next, false)
	summary := x.expandText(doc, res.Source, res.Source.Comment.FirstSentence, true, next, false)
	return body, summary
}

// expandText replaces the markers in text with the description inherited by
// origin. record is false for nested and duplicate expansions, which are
// neither logged in doc.Resolutions nor reported.
func (x *Expander) expandText(doc *ElementDoc, origin *types.Element, text string, firstSentence bool,
	chain map[*types.Element]bool, record bool) string {

	if !types.HasMarker(text) {
		return text
	}

	inherited := x.inherit(doc, origin, nil, firstSentence, chain, record)
	return strings.ReplaceAll(text, types.InheritDocMarker, inherited)
}

// expandTag replaces the markers in holder's content with the content of the
// same tag inherited by origin.
func (x *Expander) expandTag(doc *ElementDoc, origin *types.Element, holder *types.BlockTag,
	chain map[*types.Element]bool, record bool) string {

	inherited := x.inherit(doc, origin, holder, false, chain, record)
	return strings.ReplaceAll(holder.Content, types.InheritDocMarker, inherited)
}

// inherit resolves one marker and returns the raw inherited text with its own
// markers expanded.
func (x *Expander) inherit(doc *ElementDoc, origin *types.Element, holder *types.BlockTag, firstSentence bool,
	chain map[*types.Element]bool, record bool) string {

	res := x.resolver.Resolve(x.resolver.Request(origin, holder, firstSentence))

	if record {
		r := Resolution{Result: res}
		if holder != nil {
			r.Tag, r.Argument = holder.Name, holder.Argument
		}
		doc.Resolutions = append(doc.Resolutions, r)
		if res.HasDiagnostic() {
			x.reporter.Report(diagnostics.New(origin, r.Tag, res))
		}
	}

	// A source already on the expansion path means the metadata is cyclic
	if !res.Found || chain[res.Source] {
		return ""
	}
	if origin == doc.Element {
		doc.AttachProvenance(x.assembler.Assemble(res))
	}
	next := with(chain, res.Source)

	if holder == nil {
		return x.expandText(doc, res.Source, res.Content, firstSentence, next, false)
	}
	found := types.BlockTag{Name: holder.Name, Argument: holder.Argument, Content: res.Content}
	if !types.HasMarker(found.Content) {
		return found.Content
	}
	return x.expandTag(doc, res.Source, &found, next, false)
}

func with(chain map[*types.Element]bool, e *types.Element) map[*types.Element]bool {
	next := make(map[*types.Element]bool, len(chain)+1)
	for k := range chain {
		next[k] = true
	}
	next[e] = true
	return next
}
