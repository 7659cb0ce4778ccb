// Package types provides shared type definitions for inheritdoc.
//
// # Core Types
//
// Element is a documentable symbol (a type or a method) linked into its
// inheritance hierarchy:
//
//	method := &types.Element{
//	    ID:        "shapes.Circle.Area",
//	    Name:      "Area",
//	    Kind:      types.KindMethod,
//	    Enclosing: circle,
//	    Overrides: shapeArea,
//	}
//
// Comment is the parsed documentation of an element: the main description,
// its first sentence, and the ordered block tags.
//
// Symbol is the flat, ID-referencing declaration record that parsers, the
// YAML loader and storage exchange. The model builder turns a set of Symbols
// into linked Elements.
//
// # Searching
//
// SearchRequest and SearchResult are the transient values exchanged with the
// resolver:
//
//	result := resolver.Resolve(types.SearchRequest{
//	    Origin:    method,
//	    HolderTag: "throws",
//	})
//	if result.Found {
//	    fmt.Println(result.Source.ID, result.Content)
//	}
//
// A result that is not found carries a DiagnosticReason (not_inheritable or
// not_found) for the caller to report. Neither is an error.
package types
