package assembler

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inheritdoc/internal/diagnostics"
	"github.com/dshills/inheritdoc/internal/registry"
	"github.com/dshills/inheritdoc/internal/resolver"
	"github.com/dshills/inheritdoc/pkg/types"
)

type fixture struct {
	collector *diagnostics.Collector
	expander  *Expander
}

func newFixture() *fixture {
	c := &diagnostics.Collector{}
	return &fixture{
		collector: c,
		expander:  NewExpander(resolver.New(registry.Default()), New(nil), c),
	}
}

func typeElem(id string, super *types.Element, ifaces ...*types.Element) *types.Element {
	return &types.Element{ID: id, Name: id, Kind: types.KindType, Superclass: super, Interfaces: ifaces}
}

func methodElem(owner, overrides *types.Element, c types.Comment) *types.Element {
	m := &types.Element{
		ID:        owner.ID + ".Read",
		Name:      "Read",
		Kind:      types.KindMethod,
		Enclosing: owner,
		Overrides: overrides,
		Comment:   c,
	}
	owner.Methods = append(owner.Methods, m)
	return m
}

func TestExpand_ImplicitInheritance(t *testing.T) {
	f := newFixture()

	reader := typeElem("Reader", nil)
	reader.Interface = true
	base := methodElem(reader, nil, types.Comment{
		Body:          "Reads the next record. Returns io.EOF at the end.",
		FirstSentence: "Reads the next record.",
		Tags:          []types.BlockTag{{Name: "return", Content: "the record"}},
	})
	file := typeElem("File", nil, reader)
	impl := methodElem(file, nil, types.Comment{})

	doc := f.expander.Expand(impl)
	assert.Equal(t, "Reads the next record. Returns io.EOF at the end.", doc.Body)
	assert.Equal(t, "Reads the next record.", doc.Summary)
	assert.Same(t, base, doc.Overrides)
	require.Len(t, doc.Resolutions, 1)
	assert.True(t, doc.Resolutions[0].Implicit)
	assert.Empty(t, doc.Tags, "block tags are not inherited implicitly")
	assert.Zero(t, f.collector.Len())
}

func TestExpand_ImplicitMissIsSilent(t *testing.T) {
	f := newFixture()

	root := typeElem("Root", nil)
	doc := f.expander.Expand(root)
	assert.Empty(t, doc.Body)
	assert.Nil(t, doc.Overrides)
	require.Len(t, doc.Resolutions, 1)
	assert.Equal(t, types.ReasonNotFound, doc.Resolutions[0].Result.Reason)
	assert.Zero(t, f.collector.Len())
}

func TestExpand_InlineMarkerInBody(t *testing.T) {
	f := newFixture()

	parent := typeElem("Parent", nil)
	parent.Comment = types.Comment{Body: "Holds state. Not thread safe.", FirstSentence: "Holds state."}
	child := typeElem("Child", parent)
	child.Comment = types.Comment{
		Body:          "{@inheritDoc} Also caches lookups.",
		FirstSentence: "{@inheritDoc} Also caches lookups.",
	}

	doc := f.expander.Expand(child)
	assert.Equal(t, "Holds state. Not thread safe. Also caches lookups.", doc.Body)
	assert.Equal(t, "Holds state. Also caches lookups.", doc.Summary)
	assert.Same(t, parent, doc.Overrides)
	require.Len(t, doc.Resolutions, 1, "the summary expansion is not recorded twice")
	assert.False(t, doc.Resolutions[0].Implicit)
}

func TestExpand_MarkerInBlockTag(t *testing.T) {
	f := newFixture()

	iface := typeElem("Store", nil)
	get := methodElem(iface, nil, types.Comment{
		Body: "Gets a value.",
		Tags: []types.BlockTag{
			{Name: "param", Argument: "key", Content: "the lookup key"},
			{Name: "throws", Argument: "NotFound", Content: "when the key is absent"},
		},
	})
	impl := typeElem("MemStore", nil, iface)
	implGet := methodElem(impl, nil, types.Comment{
		Body: "Gets a value from memory.",
		Tags: []types.BlockTag{
			{Name: "param", Argument: "key", Content: "{@inheritDoc}, case sensitive"},
			{Name: "throws", Argument: "NotFound", Content: "{@inheritDoc}"},
			{Name: "since", Content: "2.0"},
		},
	})

	doc := f.expander.Expand(implGet)
	require.Len(t, doc.Tags, 3)
	assert.Equal(t, RenderedTag{Name: "param", Argument: "key", Content: "the lookup key, case sensitive"}, doc.Tags[0])
	assert.Equal(t, "when the key is absent", doc.Tags[1].Content)
	assert.Equal(t, "2.0", doc.Tags[2].Content)
	assert.Equal(t, "Gets a value from memory.", doc.Body)
	assert.Same(t, get, doc.Overrides)
	assert.Zero(t, f.collector.Len())
}

func TestExpand_ReportsExplicitMisses(t *testing.T) {
	f := newFixture()

	parent := typeElem("Parent", nil)
	methodElem(parent, nil, types.Comment{
		Body: "Parent docs.",
		Tags: []types.BlockTag{{Name: "since", Content: "1.0"}},
	})
	child := typeElem("Child", parent)
	m := methodElem(child, nil, types.Comment{
		Body: "Child docs.",
		Tags: []types.BlockTag{
			{Name: "since", Content: "{@inheritDoc}"},
			{Name: "return", Content: "{@inheritDoc}"},
		},
	})

	doc := f.expander.Expand(m)
	require.Len(t, doc.Tags, 2)
	assert.Empty(t, doc.Tags[0].Content)
	assert.Empty(t, doc.Tags[1].Content)
	assert.Nil(t, doc.Overrides)

	got := f.collector.Diagnostics()
	require.Len(t, got, 2)
	assert.Equal(t, types.ReasonNotInheritable, got[0].Reason)
	assert.Equal(t, "since", got[0].Tag)
	assert.Equal(t, types.ReasonNotFound, got[1].Reason)
	assert.Equal(t, "return", got[1].Tag)
	assert.Equal(t, "Child.Read", got[1].ElementID)
}

func TestExpand_NestedMarkers(t *testing.T) {
	f := newFixture()

	top := typeElem("Top", nil)
	top.Comment = types.Comment{Body: "Top docs.", FirstSentence: "Top docs."}
	mid := typeElem("Mid", top)
	mid.Comment = types.Comment{Body: "{@inheritDoc} Mid docs.", FirstSentence: "{@inheritDoc} Mid docs."}
	leaf := typeElem("Leaf", mid)

	doc := f.expander.Expand(leaf)
	assert.Equal(t, "Top docs. Mid docs.", doc.Body)
	assert.Same(t, mid, doc.Overrides, "provenance names the closest source")
}

func TestExpand_CyclicMarkersTerminate(t *testing.T) {
	f := newFixture()

	a := typeElem("A", nil)
	b := typeElem("B", a)
	a.Superclass = b
	a.Comment = types.Comment{Body: "A {@inheritDoc}", FirstSentence: "A {@inheritDoc}"}
	b.Comment = types.Comment{Body: "B {@inheritDoc}", FirstSentence: "B {@inheritDoc}"}

	doc := f.expander.Expand(a)
	assert.Equal(t, "A B", doc.Body)
}

func TestExpand_HTML(t *testing.T) {
	c := &diagnostics.Collector{}
	x := NewExpander(resolver.New(nil), New(&HTMLRenderer{}), c)

	parent := typeElem("Parent", nil)
	parent.Comment = types.Comment{Body: "Uses **bold** text.", FirstSentence: "Uses **bold** text."}
	child := typeElem("Child", parent)

	doc := x.Expand(child)
	assert.Equal(t, "<p>Uses <strong>bold</strong> text.</p>", doc.Body)
}

func TestExpand_CyclicSourceLeavesNoProvenance(t *testing.T) {
	self := func(e *types.Element) iter.Seq[*types.Element] {
		return func(yield func(*types.Element) bool) { yield(e) }
	}
	x := NewExpander(resolver.New(registry.Default(), resolver.WithAncestors(self)), New(nil), nil)

	owner := typeElem("Loop", nil)
	m := methodElem(owner, nil, types.Comment{
		Body:          "{@inheritDoc} Again.",
		FirstSentence: "{@inheritDoc} Again.",
	})

	doc := x.Expand(m)
	assert.Equal(t, "Again.", doc.Body)
	assert.Nil(t, doc.Overrides)
	assert.False(t, doc.Inherited())
}
