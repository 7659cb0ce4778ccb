package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inheritdoc/pkg/types"
)

func typeSym(id string, mods ...func(*types.Symbol)) types.Symbol {
	s := types.Symbol{ID: id, Name: id, Kind: types.KindType}
	for _, m := range mods {
		m(&s)
	}
	return s
}

func methodSym(id, name, enclosing string, mods ...func(*types.Symbol)) types.Symbol {
	s := types.Symbol{ID: id, Name: name, Kind: types.KindMethod, Enclosing: enclosing}
	for _, m := range mods {
		m(&s)
	}
	return s
}

func mustLookup(t *testing.T, m *Model, id string) *types.Element {
	t.Helper()
	e, ok := m.Lookup(id)
	require.True(t, ok, "missing %s", id)
	return e
}

func TestBuild_ExplicitLinks(t *testing.T) {
	symbols := []types.Symbol{
		typeSym("I", func(s *types.Symbol) { s.Interface = true }),
		typeSym("A"),
		typeSym("B", func(s *types.Symbol) {
			s.Superclass = "A"
			s.Interfaces = []string{"I"}
		}),
		methodSym("A.run", "run", "A", func(s *types.Symbol) { s.DocComment = "Runs it.\n\n@return code" }),
		methodSym("B.run", "run", "B", func(s *types.Symbol) { s.Overrides = "A.run" }),
	}

	m, warnings, err := Build(symbols)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 5, m.Len())

	a, b, i := mustLookup(t, m, "A"), mustLookup(t, m, "B"), mustLookup(t, m, "I")
	assert.Same(t, a, b.Superclass)
	assert.Equal(t, []*types.Element{i}, b.Interfaces)

	aRun, bRun := mustLookup(t, m, "A.run"), mustLookup(t, m, "B.run")
	assert.Same(t, aRun, bRun.Overrides)
	assert.Same(t, b, bRun.Enclosing)
	assert.Equal(t, []*types.Element{bRun}, b.Methods)
	assert.Equal(t, "Runs it.", aRun.Comment.Body)
	require.Len(t, aRun.Comment.Tags, 1)
	assert.Equal(t, "return", aRun.Comment.Tags[0].Name)
}

func TestBuild_InfersOverrides(t *testing.T) {
	symbols := []types.Symbol{
		typeSym("Root"),
		typeSym("Mid", func(s *types.Symbol) { s.Superclass = "Root" }),
		typeSym("Leaf", func(s *types.Symbol) { s.Superclass = "Mid" }),
		methodSym("Root.m", "m", "Root", func(s *types.Symbol) { s.Params = []string{"int"} }),
		methodSym("Root.other", "m", "Root", func(s *types.Symbol) { s.Params = []string{"string"} }),
		methodSym("Leaf.m", "m", "Leaf", func(s *types.Symbol) { s.Params = []string{"int"} }),
	}

	m, _, err := Build(symbols)
	require.NoError(t, err)

	leafM := mustLookup(t, m, "Leaf.m")
	assert.Same(t, mustLookup(t, m, "Root.m"), leafM.Overrides)
	assert.Nil(t, mustLookup(t, m, "Root.m").Overrides)
}

func TestBuild_EmbedClassification(t *testing.T) {
	symbols := []types.Symbol{
		typeSym("p.Reader", func(s *types.Symbol) { s.Package = "p"; s.Interface = true }),
		typeSym("p.Base", func(s *types.Symbol) { s.Package = "p" }),
		typeSym("p.Extra", func(s *types.Symbol) { s.Package = "p" }),
		typeSym("p.File", func(s *types.Symbol) {
			s.Package = "p"
			s.Embeds = []string{"Reader", "Base", "Extra", "io.Closer"}
		}),
		typeSym("p.ReadCloser", func(s *types.Symbol) {
			s.Package = "p"
			s.Interface = true
			s.Embeds = []string{"Reader"}
		}),
	}

	m, warnings, err := Build(symbols)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "io.Closer")

	file := mustLookup(t, m, "p.File")
	assert.Same(t, mustLookup(t, m, "p.Base"), file.Superclass)
	assert.Equal(t, []*types.Element{mustLookup(t, m, "p.Reader"), mustLookup(t, m, "p.Extra")}, file.Interfaces)

	rc := mustLookup(t, m, "p.ReadCloser")
	assert.Nil(t, rc.Superclass)
	assert.Equal(t, []*types.Element{mustLookup(t, m, "p.Reader")}, rc.Interfaces)
}

func TestBuild_StructuralInterfaces(t *testing.T) {
	symbols := []types.Symbol{
		typeSym("Sizer", func(s *types.Symbol) { s.Interface = true }),
		methodSym("Sizer.Size", "Size", "Sizer"),
		typeSym("Empty", func(s *types.Symbol) { s.Interface = true }),
		typeSym("Base"),
		methodSym("Base.Size", "Size", "Base"),
		typeSym("Derived", func(s *types.Symbol) { s.Superclass = "Base" }),
		typeSym("Unrelated"),
	}

	m, _, err := Build(symbols)
	require.NoError(t, err)
	assert.Empty(t, mustLookup(t, m, "Base").Interfaces)

	m, _, err = Build(symbols, WithStructuralInterfaces())
	require.NoError(t, err)

	sizer := mustLookup(t, m, "Sizer")
	assert.Equal(t, []*types.Element{sizer}, mustLookup(t, m, "Base").Interfaces)
	assert.Equal(t, []*types.Element{sizer}, mustLookup(t, m, "Derived").Interfaces, "promoted methods count")
	assert.Empty(t, mustLookup(t, m, "Unrelated").Interfaces)
	assert.Empty(t, mustLookup(t, m, "Sizer").Interfaces)
}

func TestBuild_DanglingReferences(t *testing.T) {
	symbols := []types.Symbol{
		typeSym("A", func(s *types.Symbol) {
			s.Superclass = "Missing"
			s.Interfaces = []string{"Gone"}
		}),
		methodSym("A.m", "m", "A", func(s *types.Symbol) { s.Overrides = "Nowhere.m" }),
		methodSym("X.m", "m", "X"),
	}

	m, warnings, err := Build(symbols)
	require.NoError(t, err)
	assert.Len(t, warnings, 4)

	a := mustLookup(t, m, "A")
	assert.Nil(t, a.Superclass)
	assert.Empty(t, a.Interfaces)
	assert.Nil(t, mustLookup(t, m, "A.m").Overrides)
	assert.Nil(t, mustLookup(t, m, "X.m").Enclosing)
}

func TestBuild_CyclicSuperclass(t *testing.T) {
	symbols := []types.Symbol{
		typeSym("A", func(s *types.Symbol) { s.Superclass = "B" }),
		typeSym("B", func(s *types.Symbol) { s.Superclass = "A" }),
		methodSym("A.m", "m", "A"),
	}

	m, _, err := Build(symbols, WithStructuralInterfaces())
	require.NoError(t, err)
	assert.Nil(t, mustLookup(t, m, "A.m").Overrides)
}

func TestBuild_Errors(t *testing.T) {
	_, _, err := Build([]types.Symbol{typeSym("A"), typeSym("A")})
	assert.ErrorIs(t, err, types.ErrDuplicateID)

}

func TestBuild_InvalidSymbolsAreDropped(t *testing.T) {
	symbols := []types.Symbol{
		typeSym("A", func(s *types.Symbol) { s.DocComment = "A does things." }),
		{ID: "A.x", Name: "x", Kind: "field"},
		methodSym("A.broken", "broken", "A", func(s *types.Symbol) {
			s.Start = types.Position{Line: 6, Column: 1}
		}),
		methodSym("A.run", "run", "A"),
	}

	m, warnings, err := Build(symbols)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "A.x")
	assert.Contains(t, warnings[1], "A.broken")

	_, ok := m.Lookup("A.x")
	assert.False(t, ok)
	assert.Equal(t, []*types.Element{mustLookup(t, m, "A.run")}, mustLookup(t, m, "A").Methods)
}

func TestModel_ElementsIsACopy(t *testing.T) {
	m, _, err := Build([]types.Symbol{typeSym("A"), typeSym("B")})
	require.NoError(t, err)

	elems := m.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, "A", elems[0].ID)
	elems[0] = nil
	assert.NotNil(t, m.Elements()[0])

	_, ok := m.Lookup("C")
	assert.False(t, ok)
}
