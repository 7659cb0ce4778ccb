package hierarchy

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inheritdoc/pkg/types"
)

func newType(id string, super *types.Element, ifaces ...*types.Element) *types.Element {
	return &types.Element{ID: id, Name: id, Kind: types.KindType, Superclass: super, Interfaces: ifaces}
}

func addMethod(owner *types.Element, name string, overrides *types.Element) *types.Element {
	m := &types.Element{
		ID:        owner.ID + "." + name,
		Name:      name,
		Kind:      types.KindMethod,
		Enclosing: owner,
		Overrides: overrides,
	}
	owner.Methods = append(owner.Methods, m)
	return m
}

func ids(seq func(func(*types.Element) bool)) []string {
	var out []string
	for e := range seq {
		out = append(out, e.ID)
	}
	return out
}

func TestAncestors_RootType(t *testing.T) {
	root := newType("Root", nil)
	assert.Empty(t, ids(Ancestors(root)))
	assert.Empty(t, ids(Ancestors(nil)))
}

func TestAncestors_Diamond(t *testing.T) {
	a := newType("A", nil)
	b := newType("B", nil, a)
	c := newType("C", nil, a)
	d := newType("D", nil, b, c)

	got := ids(Ancestors(d))
	assert.Equal(t, []string{"B", "A", "C"}, got)

	count := 0
	for _, id := range got {
		if id == "A" {
			count++
		}
	}
	assert.Equal(t, 1, count, "A must appear exactly once")
}

func TestAncestors_SuperclassBeforeInterfaces(t *testing.T) {
	object := newType("Object", nil)
	closer := newType("Closer", nil)
	reader := newType("Reader", nil, closer)
	base := newType("Base", object)
	impl := newType("Impl", base, reader)

	assert.Equal(t, []string{"Base", "Object", "Reader", "Closer"}, ids(Ancestors(impl)))
	assert.Equal(t, ids(TypeAncestors(impl)), ids(Ancestors(impl)))
}

func TestAncestors_Idempotent(t *testing.T) {
	a := newType("A", nil)
	b := newType("B", nil, a)
	c := newType("C", nil, a)
	d := newType("D", b, c)

	seq := Ancestors(d)
	first := ids(seq)
	second := ids(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, first, ids(Ancestors(d)))
}

func TestAncestors_CyclicMetadataTerminates(t *testing.T) {
	a := newType("A", nil)
	b := newType("B", a)
	a.Superclass = b
	self := newType("Self", nil)
	self.Interfaces = []*types.Element{self}

	assert.Equal(t, []string{"B"}, ids(Ancestors(a)))
	assert.Empty(t, ids(Ancestors(self)))

	m := &types.Element{ID: "m", Name: "m", Kind: types.KindMethod}
	m.Overrides = m
	assert.Empty(t, ids(Ancestors(m)))
	assert.Empty(t, ids(OverrideChain(m)))
}

func TestAncestors_EarlyStop(t *testing.T) {
	a := newType("A", nil)
	b := newType("B", a)
	c := newType("C", b)

	var got []string
	for e := range Ancestors(c) {
		got = append(got, e.ID)
		break
	}
	assert.Equal(t, []string{"B"}, got)
}

func TestAncestors_MethodOverrideThenInterfaces(t *testing.T) {
	// Shape (interface) declares Area; Base implements Shape; Circle extends Base
	// and also implements Sized, which declares Area too.
	shape := newType("Shape", nil)
	shapeArea := addMethod(shape, "Area", nil)
	sized := newType("Sized", nil)
	sizedArea := addMethod(sized, "Area", nil)
	base := newType("Base", nil, shape)
	baseArea := addMethod(base, "Area", nil)
	circle := newType("Circle", base, sized)
	circleArea := addMethod(circle, "Area", baseArea)

	got := ids(Ancestors(circleArea))
	assert.Equal(t, []string{baseArea.ID, shapeArea.ID, sizedArea.ID}, got)
}

func TestAncestors_MethodSkipsTypesWithoutMatch(t *testing.T) {
	top := newType("Top", nil)
	topRun := addMethod(top, "Run", nil)
	middle := newType("Middle", top) // no Run
	bottom := newType("Bottom", middle)
	bottomRun := addMethod(bottom, "Run", nil)

	assert.Equal(t, []string{topRun.ID}, ids(Ancestors(bottomRun)))
}

func TestAncestors_MethodSignatureMustMatch(t *testing.T) {
	parent := newType("Parent", nil)
	other := addMethod(parent, "Put", nil)
	other.Params = []string{"int"}
	child := newType("Child", parent)
	put := addMethod(child, "Put", nil)
	put.Params = []string{"string"}

	assert.Empty(t, ids(Ancestors(put)))
}

func TestAncestors_MethodDiamondDedup(t *testing.T) {
	a := newType("A", nil)
	aRun := addMethod(a, "Run", nil)
	b := newType("B", nil, a)
	bRun := addMethod(b, "Run", aRun)
	c := newType("C", nil, a)
	cRun := addMethod(c, "Run", aRun)
	d := newType("D", nil, b, c)
	dRun := addMethod(d, "Run", nil)

	got := ids(Ancestors(dRun))
	assert.Equal(t, []string{bRun.ID, aRun.ID, cRun.ID}, got)
}

func TestOverrideChain(t *testing.T) {
	a := newType("A", nil)
	aRun := addMethod(a, "Run", nil)
	b := newType("B", a)
	bRun := addMethod(b, "Run", aRun)
	c := newType("C", b)
	cRun := addMethod(c, "Run", bRun)

	assert.Equal(t, []string{bRun.ID, aRun.ID}, ids(OverrideChain(cRun)))
	assert.Empty(t, ids(OverrideChain(aRun)))
}

func TestTypeAncestors_OfMethodOwner(t *testing.T) {
	a := newType("A", nil)
	b := newType("B", a)
	got := slices.Collect(TypeAncestors(b))
	require.Len(t, got, 1)
	assert.Same(t, a, got[0])
}

func TestAncestors_OverrideWithDifferentSignature(t *testing.T) {
	withParams := func(m *types.Element, id string, params ...string) *types.Element {
		m.ID, m.Params = id, params
		return m
	}

	i := newType("I", nil)
	i.Interface = true
	iGeneric := withParams(addMethod(i, "m", nil), "I.m(T)", "T")
	iConcrete := withParams(addMethod(i, "m", nil), "I.m(int)", "int")

	b := newType("B", nil, i)
	bGeneric := withParams(addMethod(b, "m", nil), "B.m(T)", "T")
	d := newType("D", b)
	dConcrete := withParams(addMethod(d, "m", bGeneric), "D.m(int)", "int")

	// I is reached under both signatures even though B.m(T) searched it first
	assert.Equal(t, []string{bGeneric.ID, iGeneric.ID, iConcrete.ID}, ids(Ancestors(dConcrete)))
}
