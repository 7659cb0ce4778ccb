package types

import "strings"

// ElementKind distinguishes the two documentable element kinds
type ElementKind string

const (
	KindType   ElementKind = "type"
	KindMethod ElementKind = "method"
)

// Position represents a location in source code
type Position struct {
	Line   int
	Column int
}

// Element is a documentable program symbol linked into its inheritance hierarchy.
//
// Elements are built once by the model builder and never mutated afterwards;
// all links are references into the same model.
type Element struct {
	// Identification
	ID      string
	Name    string
	Kind    ElementKind
	Package string

	// Interface is true for interface types
	Interface bool

	// Params holds method parameter types, used for signature matching
	Params []string

	// ParamNames holds the declared parameter names in Params order.
	// Overrides may rename parameters, so @param tags match by position.
	ParamNames []string

	// Hierarchy links
	Superclass *Element
	Interfaces []*Element // Declaration order
	Overrides  *Element   // Methods only
	Enclosing  *Element   // Methods only: the declaring type
	Methods    []*Element // Types only

	Comment  Comment
	Position Position
}

// IsMethod reports whether the element is a method
func (e *Element) IsMethod() bool {
	return e.Kind == KindMethod
}

// SignatureKey identifies a method independently of its declaring type.
// Two methods with the same key in related types override one another.
func (e *Element) SignatureKey() string {
	return e.Name + "(" + strings.Join(e.Params, ",") + ")"
}

// FlatSignature returns the name plus parameter list for methods and the bare
// name for types, the form used in diagnostics.
func (e *Element) FlatSignature() string {
	if !e.IsMethod() {
		return e.Name
	}
	return e.Name + "(" + strings.Join(e.Params, ", ") + ")"
}

// ParamPosition returns the 1-based position of the parameter called name,
// or 0 when there is none
func (e *Element) ParamPosition(name string) int {
	if name == "" || name == "_" {
		return 0
	}
	for i, n := range e.ParamNames {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// ParamName returns the name of the parameter at the 1-based position, or
// "" when it is out of range or unnamed
func (e *Element) ParamName(position int) string {
	if position < 1 || position > len(e.ParamNames) {
		return ""
	}
	if name := e.ParamNames[position-1]; name != "_" {
		return name
	}
	return ""
}

// Method returns the method declared on this type with the given signature key
func (e *Element) Method(key string) *Element {
	for _, m := range e.Methods {
		if m.SignatureKey() == key {
			return m
		}
	}
	return nil
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	return e.ID
}
