package types

import "fmt"

// ParseResult is the output of parsing one source file
type ParseResult struct {
	Symbols     []Symbol
	PackageName string

	// Errors holds syntax errors; Symbols then come from the partial AST
	Errors []ParseError
}

// ParseError is a syntax error at a source position. Line and Column are
// zero when the position is unknown.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (pe ParseError) Error() string {
	if pe.Line == 0 {
		return fmt.Sprintf("%s: %s", pe.File, pe.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", pe.File, pe.Line, pe.Column, pe.Message)
}

// HasErrors reports whether any syntax error was recorded
func (pr *ParseResult) HasErrors() bool {
	return len(pr.Errors) > 0
}

// AddError records a syntax error
func (pr *ParseResult) AddError(file string, line, col int, msg string) {
	pr.Errors = append(pr.Errors, ParseError{File: file, Line: line, Column: col, Message: msg})
}
