// Package parser extracts documentable symbols from Go source files.
//
// The parser leverages Go's standard library (go/parser, go/ast, go/token) to
// map Go declarations onto an object model with single class inheritance and
// multiple interface inheritance:
//
//   - structs and interfaces become type symbols
//   - anonymous (embedded) fields are recorded in Symbol.Embeds, in order;
//     the model builder turns the first embedded struct into the superclass
//     and embedded interfaces into implemented interfaces
//   - methods, including interface method specs, become method symbols whose
//     Params hold the parameter types used for signature matching
//
// # Basic Usage
//
//	p := parser.New()
//	result, err := p.ParseFile("/path/to/file.go")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, symbol := range result.Symbols {
//	    fmt.Printf("Found %s: %s\n", symbol.Kind, symbol.ID)
//	}
//
// # Doc Comments
//
// ParseComment splits a comment into its main description and block tags:
//
//	// Get returns the value stored under key.
//	//
//	// @param key the lookup key
//	// @return the value, or nil
//
// The inline marker {@inheritDoc} may appear in the description or in a
// block tag and is left in place for the resolver.
//
// # Error Handling
//
// Syntax errors are non-fatal: they are recorded in ParseResult.Errors and
// symbols from the partial AST are still returned.
package parser
