package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to an indexed Go project root or YAML model file",
}

var formatProperty = map[string]interface{}{
	"type":        "string",
	"description": "Rendering of resolved text: text (as written) or html (markdown rendered)",
	"enum":        []string{"text", "plain", "html", "markdown"},
}

// indexProjectTool returns the tool definition for index_project
func indexProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_project",
		Description: "Parse a Go project (or a YAML symbol model) and resolve the inherited documentation of every type and method",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a Go project root (containing .go files) or a .yaml/.yml model file",
				},
				"include_tests": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, index *_test.go files",
					"default":     false,
				},
				"include_vendor": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, index vendor/ directory",
					"default":     false,
				},
				"format": formatProperty,
			},
			Required: []string{"path"},
		},
	}
}

// resolveDocTool returns the tool definition for resolve_doc
func resolveDocTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_doc",
		Description: "Return the effective documentation of a type or method with {@inheritDoc} markers expanded",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"symbol": map[string]interface{}{
					"type":        "string",
					"description": "Symbol ID, e.g. pkg.Type or pkg.Type.Method",
				},
				"format": formatProperty,
			},
			Required: []string{"path", "symbol"},
		},
	}
}

// listAncestorsTool returns the tool definition for list_ancestors
func listAncestorsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_ancestors",
		Description: "List the ancestors of a type or method in the order documentation is inherited from them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
				"symbol": map[string]interface{}{
					"type":        "string",
					"description": "Symbol ID, e.g. pkg.Type or pkg.Type.Method",
				},
			},
			Required: []string{"path", "symbol"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": pathProperty,
			},
			Required: []string{"path"},
		},
	}
}
