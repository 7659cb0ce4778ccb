package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"strings"

	"github.com/dshills/inheritdoc/pkg/types"
)

// Parser handles AST-based parsing of Go source files
type Parser struct {
	fset *token.FileSet
}

// New creates a new Parser instance
func New() *Parser {
	return &Parser{
		fset: token.NewFileSet(),
	}
}

// ParseFile parses a Go source file and extracts documentable types and methods
func (p *Parser) ParseFile(filePath string) (*types.ParseResult, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.ParseSource(filePath, content), nil
}

// ParseSource parses Go source held in memory. Syntax errors are recorded in
// the result; symbols from the partial AST are still returned.
func (p *Parser) ParseSource(filePath string, content []byte) *types.ParseResult {
	result := &types.ParseResult{}

	file, err := parser.ParseFile(p.fset, filePath, content, parser.ParseComments)
	var syntaxErrs scanner.ErrorList
	if errors.As(err, &syntaxErrs) {
		for _, se := range syntaxErrs {
			result.AddError(filePath, se.Pos.Line, se.Pos.Column, se.Msg)
		}
	} else if err != nil {
		result.AddError(filePath, 0, 0, err.Error())
	}
	if file == nil {
		return result
	}

	if file.Name != nil {
		result.PackageName = file.Name.Name
	}

	extractor := &symbolExtractor{
		fset:        p.fset,
		filePath:    filePath,
		packageName: result.PackageName,
		symbols:     make([]types.Symbol, 0),
	}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			extractor.extractGenDecl(d)
		case *ast.FuncDecl:
			extractor.extractMethod(d)
		}
	}
	result.Symbols = extractor.symbols

	return result
}

// symbolExtractor collects symbols from one file
type symbolExtractor struct {
	fset        *token.FileSet
	filePath    string
	packageName string
	symbols     []types.Symbol
}

// extractGenDecl extracts type declarations
func (e *symbolExtractor) extractGenDecl(genDecl *ast.GenDecl) {
	if genDecl.Tok != token.TYPE {
		return
	}
	for _, spec := range genDecl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		doc := typeSpec.Doc
		if doc == nil && len(genDecl.Specs) == 1 {
			doc = genDecl.Doc
		}
		e.extractTypeSpec(typeSpec, doc)
	}
}

// extractTypeSpec extracts struct, interface and other named types
func (e *symbolExtractor) extractTypeSpec(typeSpec *ast.TypeSpec, doc *ast.CommentGroup) {
	sym := types.Symbol{
		ID:         e.qualify(typeSpec.Name.Name),
		Name:       typeSpec.Name.Name,
		Kind:       types.KindType,
		Package:    e.packageName,
		DocComment: e.extractDocComment(doc),
		File:       e.filePath,
		Start:      e.positionFromToken(typeSpec.Pos()),
		End:        e.endPosition(typeSpec),
	}

	switch t := typeSpec.Type.(type) {
	case *ast.StructType:
		sym.Embeds = e.embeddedNames(t.Fields)
		e.symbols = append(e.symbols, sym)
	case *ast.InterfaceType:
		sym.Interface = true
		sym.Embeds = e.embeddedNames(t.Methods)
		e.symbols = append(e.symbols, sym)
		e.extractInterfaceMethods(sym.ID, t)
	default:
		e.symbols = append(e.symbols, sym)
	}
}

// embeddedNames lists the type names of anonymous fields in declaration order
func (e *symbolExtractor) embeddedNames(fields *ast.FieldList) []string {
	if fields == nil {
		return nil
	}
	var names []string
	for _, field := range fields.List {
		if len(field.Names) > 0 {
			continue
		}
		if _, isFunc := field.Type.(*ast.FuncType); isFunc {
			continue
		}
		name := strings.TrimPrefix(e.exprToString(field.Type), "*")
		if name != "" && name != "..." {
			names = append(names, name)
		}
	}
	return names
}

// extractInterfaceMethods extracts the method specs of an interface
func (e *symbolExtractor) extractInterfaceMethods(ownerID string, iface *ast.InterfaceType) {
	if iface.Methods == nil {
		return
	}
	for _, field := range iface.Methods.List {
		funcType, ok := field.Type.(*ast.FuncType)
		if !ok || len(field.Names) == 0 {
			continue
		}
		name := field.Names[0].Name
		e.symbols = append(e.symbols, types.Symbol{
			ID:         ownerID + "." + name,
			Name:       name,
			Kind:       types.KindMethod,
			Package:    e.packageName,
			Enclosing:  ownerID,
			Params:     e.paramTypes(funcType.Params),
			ParamNames: paramNames(funcType.Params),
			DocComment: e.extractDocComment(field.Doc),
			File:       e.filePath,
			Start:      e.positionFromToken(field.Pos()),
			End:        e.endPosition(field),
		})
	}
}

// extractMethod extracts method declarations; plain functions are skipped
func (e *symbolExtractor) extractMethod(funcDecl *ast.FuncDecl) {
	if funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
		return
	}
	receiver := e.extractReceiverType(funcDecl.Recv.List[0].Type)
	if receiver == "" {
		return
	}
	ownerID := e.qualify(receiver)

	e.symbols = append(e.symbols, types.Symbol{
		ID:         ownerID + "." + funcDecl.Name.Name,
		Name:       funcDecl.Name.Name,
		Kind:       types.KindMethod,
		Package:    e.packageName,
		Enclosing:  ownerID,
		Params:     e.paramTypes(funcDecl.Type.Params),
		ParamNames: paramNames(funcDecl.Type.Params),
		DocComment: e.extractDocComment(funcDecl.Doc),
		File:       e.filePath,
		Start:      e.positionFromToken(funcDecl.Pos()),
		End:        e.endPosition(funcDecl),
	})
}

// extractReceiverType extracts the receiver type name from a method
func (e *symbolExtractor) extractReceiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return e.extractReceiverType(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return e.extractReceiverType(t.X)
	case *ast.IndexListExpr:
		return e.extractReceiverType(t.X)
	}
	return ""
}

// paramTypes lists parameter types, one entry per declared parameter
func (e *symbolExtractor) paramTypes(fieldList *ast.FieldList) []string {
	if fieldList == nil || len(fieldList.List) == 0 {
		return nil
	}
	var params []string
	for _, field := range fieldList.List {
		typeStr := e.exprToString(field.Type)
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			params = append(params, typeStr)
		}
	}
	return params
}

// paramNames lists parameter names in paramTypes order, or nil when no
// parameter is named
func paramNames(fieldList *ast.FieldList) []string {
	if fieldList == nil {
		return nil
	}
	var names []string
	named := false
	for _, field := range fieldList.List {
		if len(field.Names) == 0 {
			names = append(names, "")
			continue
		}
		for _, ident := range field.Names {
			names = append(names, ident.Name)
			named = true
		}
	}
	if !named {
		return nil
	}
	return names
}

// exprToString converts an expression to a string representation
func (e *symbolExtractor) exprToString(expr ast.Expr) string {
	if expr == nil {
		return ""
	}

	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + e.exprToString(t.X)
	case *ast.ArrayType:
		return "[]" + e.exprToString(t.Elt)
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", e.exprToString(t.Key), e.exprToString(t.Value))
	case *ast.ChanType:
		return "chan " + e.exprToString(t.Value)
	case *ast.FuncType:
		return "func(...)"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.SelectorExpr:
		return e.exprToString(t.X) + "." + t.Sel.Name
	case *ast.Ellipsis:
		return "..." + e.exprToString(t.Elt)
	default:
		return "..."
	}
}

// qualify builds the symbol ID of a package-level name
func (e *symbolExtractor) qualify(name string) string {
	return e.packageName + "." + name
}

// extractDocComment extracts documentation from a comment group
func (e *symbolExtractor) extractDocComment(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// endPosition returns the end of node, or its start when a syntax error cut
// the node short and left no valid end
func (e *symbolExtractor) endPosition(node ast.Node) types.Position {
	start := e.positionFromToken(node.Pos())
	end := e.positionFromToken(node.End())
	if end.Line < start.Line || (end.Line == start.Line && end.Column < start.Column) {
		return start
	}
	return end
}

// positionFromToken converts a token position to our Position type
func (e *symbolExtractor) positionFromToken(pos token.Pos) types.Position {
	position := e.fset.Position(pos)
	return types.Position{
		Line:   position.Line,
		Column: position.Column,
	}
}
