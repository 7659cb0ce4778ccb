package assembler

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts documentation text into the caller's representation
type Renderer interface {
	Render(text string) string
	Name() string
}

// PlainRenderer collapses whitespace and returns plain text
type PlainRenderer struct{}

// Render normalizes runs of whitespace to single spaces
func (PlainRenderer) Render(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Name returns the renderer format name
func (PlainRenderer) Name() string { return "text" }

// HTMLRenderer renders documentation text as Markdown into HTML. Raw HTML in
// the text is replaced by a placeholder comment unless RawHTML is set.
type HTMLRenderer struct {
	RawHTML bool

	once sync.Once
	md   goldmark.Markdown
}

// Render converts text to HTML. Conversion into a memory buffer does not
// fail in practice; if it does, the escaped source is returned.
func (r *HTMLRenderer) Render(text string) string {
	r.once.Do(func() {
		opts := []goldmark.Option{goldmark.WithExtensions(extension.GFM)}
		if r.RawHTML {
			opts = append(opts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
		}
		r.md = goldmark.New(opts...)
	})
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	return strings.TrimSpace(buf.String())
}

// Name returns the renderer format name
func (r *HTMLRenderer) Name() string { return "html" }

// RenderOption configures the renderer returned by RendererFor
type RenderOption func(*HTMLRenderer)

// WithRawHTML passes HTML embedded in documentation through to HTML output.
// Only use it for trusted sources.
func WithRawHTML(enabled bool) RenderOption {
	return func(r *HTMLRenderer) { r.RawHTML = enabled }
}

// RendererFor returns the renderer for a format name ("text" or "html").
// Options only affect HTML output.
func RendererFor(format string, opts ...RenderOption) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text", "plain":
		return PlainRenderer{}, nil
	case "html", "markdown":
		r := &HTMLRenderer{}
		for _, opt := range opts {
			opt(r)
		}
		return r, nil
	default:
		return nil, ErrUnknownFormat
	}
}
