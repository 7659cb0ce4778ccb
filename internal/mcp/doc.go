// Package mcp implements the Model Context Protocol (MCP) server for inheritdoc.
//
// The MCP server exposes four tools to AI coding assistants:
//   - index_project: Parse a project and resolve inherited documentation
//   - resolve_doc: Effective documentation of one type or method
//   - list_ancestors: Ancestors in inheritance order
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. Stdout carries the
// protocol, so all logging goes to stderr.
//
//	inheritdoc serve
//
// # Tool: index_project
//
//	Request:
//	{
//	  "name": "index_project",
//	  "arguments": {"path": "/path/to/project", "format": "html"}
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "files_indexed": 12,
//	  "files_skipped": 30,
//	  "symbols_extracted": 431,
//	  "inherited": 57,
//	  "diagnostics": 2,
//	  "duration_ms": 84
//	}
//
// The path may also name a .yaml model file. Only one index run per path is
// allowed at a time; a concurrent call fails with ErrorCodeIndexingInProgress.
//
// # Tool: resolve_doc
//
//	Request:
//	{
//	  "name": "resolve_doc",
//	  "arguments": {"path": "/path/to/project", "symbol": "shapes.Circle.Area"}
//	}
//
//	Response:
//	{
//	  "symbol": "shapes.Circle.Area",
//	  "signature": "Area()",
//	  "body": "Area returns the enclosed area. Uses pi.",
//	  "tags": [{"name": "return", "content": "the area in square units"}],
//	  "inherited": true,
//	  "source": "shapes.Shape.Area",
//	  "diagnostics": []
//	}
//
// Resolution runs live against a model rebuilt from storage and cached per
// project until the project is indexed again. Unknown symbols fail with
// ErrorCodeSymbolNotFound; the error data carries full-text suggestions.
//
// # Error Codes
//
//	-32602: Invalid params (missing path, relative path, unknown format)
//	-32603: Internal error (storage failure)
//	-32001: Project not found (directory without Go files)
//	-32002: Indexing in progress
//	-32003: Project not indexed
//	-32004: Symbol not found
package mcp
